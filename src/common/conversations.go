package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"stayhub/src/config"
	"stayhub/src/db"
	"stayhub/src/lib"
	"stayhub/src/models"
	"stayhub/src/types"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// PostSettlementMessage locates or creates the guest/host thread for the
// booking's property, links the settlement event to it and appends the
// outcome message pair. Participant rows are idempotent; messages append
// on every callback.
func PostSettlementMessage(booking *models.Booking, outcome types.SettlementOutcome) (*models.Conversation, error) {
	var conversation models.Conversation
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&models.Conversation{}).
			Joins("JOIN conversation_participants AS participants ON participants.conversation_id = conversations.id").
			Where("conversations.property_id = ? AND participants.user_id = ? AND participants.role = ?",
				booking.PropertyID, booking.GuestID, types.PARTICIPANT_GUEST).
			First(&conversation).
			Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			conversation = models.Conversation{PropertyID: booking.PropertyID}
			if err := tx.Create(&conversation).Error; err != nil {
				return err
			}
		}

		// A thread first opened for a different pairing on the same
		// property must still end up containing both current parties.
		members := []struct {
			userID uint
			role   types.ParticipantRole
		}{
			{booking.GuestID, types.PARTICIPANT_GUEST},
			{booking.HostID, types.PARTICIPANT_HOST},
		}
		for _, m := range members {
			var participant models.ConversationParticipant
			if err := tx.
				Where(&models.ConversationParticipant{ConversationID: conversation.ID, UserID: m.userID}).
				Attrs(&models.ConversationParticipant{Role: m.role}).
				FirstOrCreate(&participant).
				Error; err != nil {
				return err
			}
		}

		conversationBooking := models.ConversationBooking{
			ConversationID: conversation.ID,
			BookingID:      booking.ID,
		}
		if err := tx.Create(&conversationBooking).Error; err != nil {
			return err
		}

		systemMessage := models.ConversationMessage{
			ConversationBookingID: conversationBooking.ID,
			SenderID:              booking.HostID,
			Type:                  types.MESSAGE_SYSTEM,
			Body:                  SettlementSummary(booking, outcome),
		}
		if err := tx.Create(&systemMessage).Error; err != nil {
			return err
		}

		metadata := SettlementMetadata(booking, outcome)
		data, err := metadataToJSONB(&metadata)
		if err != nil {
			return err
		}
		userMessage := models.ConversationMessage{
			ConversationBookingID: conversationBooking.ID,
			SenderID:              booking.GuestID,
			Type:                  types.MESSAGE_TEXT,
			Body:                  guestMessageBody(outcome),
			Metadata:              data,
		}
		if err := tx.Create(&userMessage).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Conversation{}).
			Where("id = ?", conversation.ID).
			Updates(map[string]any{
				"last_message_id": userMessage.ID,
				"last_message_at": userMessage.CreatedAt,
			}).
			Error; err != nil {
			return err
		}
		conversation.LastMessageID = &userMessage.ID
		conversation.LastMessageAt = &userMessage.CreatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[conversation] posted %s messages for booking %d on conversation %d\n", outcome, booking.ID, conversation.ID)
	return &conversation, nil
}

// SettlementSummary renders the human-readable system line for an outcome.
func SettlementSummary(booking *models.Booking, outcome types.SettlementOutcome) string {
	switch outcome {
	case types.SETTLEMENT_CONFIRMED:
		return fmt.Sprintf("Booking %s · %d guests, %s – %s",
			strings.ToUpper(string(types.BOOKING_CONFIRMED)),
			booking.NumGuests,
			booking.StartDate.Format(config.DATE_DISPLAY_FORMAT),
			booking.EndDate.Format(config.DATE_DISPLAY_FORMAT),
		)
	case types.SETTLEMENT_CANCELED:
		return "Payment was cancelled"
	default:
		return "Payment was unsuccessful"
	}
}

// SettlementMetadata builds the structured payload for the guest-facing
// TEXT message, including the suggested follow-up action.
func SettlementMetadata(booking *models.Booking, outcome types.SettlementOutcome) types.MessageMetadata {
	metadata := types.MessageMetadata{
		BookingID: booking.ID,
		Status:    string(outcome),
		Title:     listingTitle(booking.Property),
		StartDate: booking.StartDate.Format(config.DATE_DISPLAY_FORMAT),
		EndDate:   booking.EndDate.Format(config.DATE_DISPLAY_FORMAT),
	}
	if booking.Property != nil {
		metadata.Image = lib.S3CoverImageURL(booking.Property.CoverImageKey)
	}
	if outcome == types.SETTLEMENT_CONFIRMED {
		metadata.ActionText = "Show Details"
		metadata.ActionLink = fmt.Sprintf("%s/bookings/%d", config.AppHost(), booking.ID)
	} else {
		metadata.ActionText = "Try again"
		metadata.ActionLink = fmt.Sprintf("%s/properties/%s/book?booking=%d", config.AppHost(), propertySlug(booking.Property), booking.ID)
	}
	return metadata
}

func guestMessageBody(outcome types.SettlementOutcome) string {
	switch outcome {
	case types.SETTLEMENT_CONFIRMED:
		return "Your booking is confirmed."
	case types.SETTLEMENT_CANCELED:
		return "Payment was cancelled."
	default:
		return "Payment was unsuccessful."
	}
}

// listingTitle resolves the property's localized title, preferring the
// platform locale and falling back to the first description on record.
func listingTitle(property *models.Property) string {
	if property == nil {
		return ""
	}
	locale := os.Getenv("DEFAULT_LOCALE")
	if locale == "" {
		locale = "en"
	}
	var fallback string
	for _, d := range property.Descriptions {
		if d.Locale == locale {
			return d.Title
		}
		if fallback == "" {
			fallback = d.Title
		}
	}
	return fallback
}

func propertySlug(property *models.Property) string {
	if property == nil {
		return ""
	}
	if property.Slug != "" {
		return property.Slug
	}
	return slug.Make(listingTitle(property))
}

func metadataToJSONB(metadata *types.MessageMetadata) (*types.JSONB, error) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	var data types.JSONB
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
