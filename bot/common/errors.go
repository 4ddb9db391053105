package common

import (
	"errors"
	"strings"

	"casinobot/models"
)

// UserErrorMessage turns a service error into text a player can act on
func UserErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrBetOutOfRange),
		errors.Is(err, models.ErrDepositOutOfRange),
		errors.Is(err, models.ErrWithdrawalOutOfRange),
		errors.Is(err, models.ErrInvalidNickname):
		return capitalize(err.Error())
	case errors.Is(err, models.ErrInsufficientBalance):
		return "Insufficient balance. Top up with /deposit."
	case errors.Is(err, models.ErrUnknownGame):
		return "Unknown game. See /rules for the list of games."
	case errors.Is(err, models.ErrDrawUnavailable):
		return "The game is unavailable right now. Your stake was not taken."
	case errors.Is(err, models.ErrUserNotFound):
		return "You don't have an account yet. Use /balance to create one."
	case errors.Is(err, models.ErrPaymentNotFound):
		return "No pending deposit found. Start one with /deposit."
	case errors.Is(err, models.ErrAlreadyCredited):
		return "This payment has already been credited."
	case errors.Is(err, models.ErrPaymentExpired):
		return "This deposit request has expired. Start a new one with /deposit."
	case errors.Is(err, models.ErrAmountMismatch):
		return "The amount paid does not match the request. Contact an administrator."
	case errors.Is(err, models.ErrProviderUnavailable):
		return "The payment provider is not responding. Please try again in a few minutes."
	case errors.Is(err, models.ErrWithdrawalNotFound):
		return "Withdrawal request not found."
	case errors.Is(err, models.ErrWithdrawalResolved):
		return "This withdrawal has already been processed."
	default:
		return "Something went wrong. Please try again."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
