package models

import (
	"stayhub/src/types"
	"time"

	"github.com/google/uuid"
)

// Conversation is the per-(property, guest) thread between guest and host.
// At most one exists per pair; callers must look up before creating.
type Conversation struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	PropertyID    uint       `gorm:"index" json:"property_id"`
	LastMessageID *uuid.UUID `gorm:"type:uuid" json:"last_message_id,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`

	Property     *Property                 `gorm:"foreignKey:property_id" json:"property,omitempty"`
	Participants []ConversationParticipant `gorm:"foreignKey:conversation_id" json:"participants,omitempty"`
	Bookings     []ConversationBooking     `gorm:"foreignKey:conversation_id" json:"bookings,omitempty"`

	types.Timestamps
}

type ConversationParticipant struct {
	ID             uint                  `gorm:"primarykey" json:"id"`
	ConversationID uint                  `gorm:"uniqueIndex:idx_conversation_user" json:"conversation_id"`
	UserID         uint                  `gorm:"uniqueIndex:idx_conversation_user" json:"user_id"`
	Role           types.ParticipantRole `json:"role"`

	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

// ConversationBooking links one settlement event to a conversation. A
// reused conversation accumulates one of these per booking occurrence.
type ConversationBooking struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	ConversationID uint `gorm:"index" json:"conversation_id"`
	BookingID      uint `gorm:"index" json:"booking_id"`

	Booking  *Booking              `gorm:"foreignKey:booking_id" json:"booking,omitempty"`
	Messages []ConversationMessage `gorm:"foreignKey:conversation_booking_id" json:"messages,omitempty"`

	types.Timestamps
}

// ConversationMessage rows are immutable once created.
type ConversationMessage struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	ConversationBookingID uuid.UUID         `gorm:"type:uuid;index" json:"conversation_booking_id"`
	SenderID              uint              `json:"sender_id"`
	Type                  types.MessageType `json:"type"`
	Body                  string            `json:"body"`
	Metadata              *types.JSONB      `gorm:"type:jsonb" json:"metadata,omitempty"`

	Sender *User `gorm:"foreignKey:sender_id" json:"sender,omitempty"`

	types.Timestamps
}
