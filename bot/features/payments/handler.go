package payments

import (
	"context"
	"errors"

	"casinobot/bot/common"
	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	discordID, user, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	options := common.OptionMap(i.ApplicationCommandData().Options)
	amount := common.IntOption(options, "amount", 0)

	if _, err := f.users.EnsureUser(ctx, discordID, user.Username); err != nil {
		log.Errorf("Error ensuring user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	request, err := f.payments.InitiateDeposit(ctx, discordID, amount)
	if err != nil {
		log.Errorf("Error initiating deposit for user %d: %v", discordID, err)
		common.RespondWithError(s, i, common.UserErrorMessage(err))
		return
	}

	f.sessions.SetPendingDeposit(discordID, request.Reference, request.Amount)

	embed := BuildDepositEmbed(request, f.config.DepositTTL)
	if err := common.RespondWithEmbed(s, i, embed, BuildDepositComponents(request.PaymentURL), true); err != nil {
		log.Errorf("Error responding to deposit command: %v", err)
	}
}

// handlePaid confirms the pending deposit, falling back to the newest open request
func (f *Feature) handlePaid(s *discordgo.Session, i *discordgo.InteractionCreate) {
	discordID, _, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error resolving interaction user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Provider round trips can exceed the interaction deadline
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring paid response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), f.config.PaymentTimeout*2)
	defer cancel()

	reference, err := f.pendingReference(ctx, discordID)
	if err != nil {
		log.Errorf("Error looking up pending deposit for user %d: %v", discordID, err)
		common.EditWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if reference == "" {
		common.EditWithError(s, i, common.UserErrorMessage(models.ErrPaymentNotFound))
		return
	}

	result, err := f.payments.ConfirmDeposit(ctx, discordID, reference)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyCredited) || errors.Is(err, models.ErrPaymentExpired) || errors.Is(err, models.ErrPaymentNotFound) {
			f.sessions.ClearPendingDeposit(discordID)
		}
		log.WithFields(log.Fields{
			"discordID": discordID,
			"reference": reference,
			"error":     err,
		}).Warn("Deposit confirmation failed")
		common.EditWithError(s, i, common.UserErrorMessage(err))
		return
	}

	if result.Matched {
		f.sessions.ClearPendingDeposit(discordID)
	}

	embed := BuildConfirmationEmbed(result)
	var components []discordgo.MessageComponent
	if !result.Matched {
		components = BuildDepositComponents(result.Request.PaymentURL)
	}
	if err := common.UpdateMessage(s, i, embed, components); err != nil {
		log.Errorf("Error updating paid response: %v", err)
	}
}

func (f *Feature) pendingReference(ctx context.Context, discordID int64) (string, error) {
	if current, ok := f.sessions.Get(discordID); ok && current.PendingReference != "" {
		return current.PendingReference, nil
	}

	request, err := f.payments.LatestOpenDeposit(ctx, discordID)
	if err != nil {
		return "", err
	}
	if request == nil {
		return "", nil
	}
	f.sessions.SetPendingDeposit(discordID, request.Reference, request.Amount)
	return request.Reference, nil
}
