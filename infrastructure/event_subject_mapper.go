package infrastructure

import (
	"fmt"

	"casinobot/events"
)

const subjectPrefix = "casino."

// EventSubjectMapper maps events onto NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts an event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return subjectPrefix + "users.balance_changed"
	case events.EventTypeUserCreated:
		return subjectPrefix + "users.created"
	case events.EventTypeBetSettled:
		return subjectPrefix + "bets.settled"
	case events.EventTypeDepositCredited:
		return subjectPrefix + "payments.deposit_credited"
	case events.EventTypeWithdrawalRequested:
		return subjectPrefix + "payments.withdrawal_requested"
	case events.EventTypeWithdrawalResolved:
		return subjectPrefix + "payments.withdrawal_resolved"
	default:
		return fmt.Sprintf("%sunknown.%s", subjectPrefix, event.Type())
	}
}

// GetAllSubjects returns the subject filter the event stream captures
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{subjectPrefix + ">"}
}
