package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"casinobot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const broadcastTimeout = 10 * time.Minute

// DirectMessenger is the part of the Discord session needed to DM players
type DirectMessenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// BroadcastResult counts delivered and failed direct messages
type BroadcastResult struct {
	Sent   int
	Failed int
}

func (f *Feature) handleBroadcast(s *discordgo.Session, i *discordgo.InteractionCreate, options optionMap, adminID int64) {
	message := strings.TrimSpace(common.StringOption(options, "message", ""))
	if message == "" {
		common.RespondWithError(s, i, "The message is empty.")
		return
	}

	// Sending to every player outlasts the interaction deadline
	if err := common.DeferResponse(s, i, true); err != nil {
		log.Errorf("Error deferring broadcast response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
	defer cancel()

	ids, err := f.users.AllDiscordIDs(ctx)
	if err != nil {
		log.Errorf("Error listing players for broadcast: %v", err)
		common.EditWithError(s, i, "Unable to list players. Please try again.")
		return
	}

	result := Broadcast(ctx, s, ids, FormatBroadcast(message))
	log.WithFields(log.Fields{
		"adminID": adminID,
		"sent":    result.Sent,
		"failed":  result.Failed,
	}).Info("Admin broadcast finished")

	content := fmt.Sprintf("📣 Broadcast delivered to %d of %d players", result.Sent, len(ids))
	if result.Failed > 0 {
		content += fmt.Sprintf(" (%d failed, see logs)", result.Failed)
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Errorf("Error editing broadcast response: %v", err)
	}
}

// Broadcast sends content to every player, logging failures per user and stopping when ctx ends
func Broadcast(ctx context.Context, messenger DirectMessenger, ids []int64, content string) BroadcastResult {
	var result BroadcastResult
	for _, id := range ids {
		if ctx.Err() != nil {
			result.Failed += len(ids) - result.Sent - result.Failed
			log.WithError(ctx.Err()).Warn("Broadcast interrupted")
			break
		}

		channel, err := messenger.UserChannelCreate(strconv.FormatInt(id, 10))
		if err != nil {
			result.Failed++
			log.WithFields(log.Fields{
				"discordID": id,
				"error":     err,
			}).Warn("Failed to open broadcast DM channel")
			continue
		}
		if _, err := messenger.ChannelMessageSend(channel.ID, content); err != nil {
			result.Failed++
			log.WithFields(log.Fields{
				"discordID": id,
				"error":     err,
			}).Warn("Failed to deliver broadcast")
			continue
		}
		result.Sent++
	}
	return result
}

// FormatBroadcast frames an admin announcement
func FormatBroadcast(message string) string {
	return "📣 **Announcement**\n" + message
}
