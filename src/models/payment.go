package models

import (
	"stayhub/src/types"
	"time"

	"github.com/google/uuid"
)

// Payment is one row per payment attempt. TransactionID carries the
// booking id in the form Tran-<bookingId>-<epochMillis>; gateway callbacks
// only ever hand that string back, so the format is load-bearing.
type Payment struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	TransactionID   string              `gorm:"uniqueIndex" json:"transaction_id"`
	BookingID       uint                `json:"booking_id"`
	UserID          uint                `json:"user_id"`
	Status          types.PaymentStatus `gorm:"default:'pending'" json:"status"`
	Amount          float64             `json:"amount"`
	Currency        string              `json:"currency,omitempty"`
	TransactionDate *time.Time          `json:"transaction_date,omitempty"`
	CardIssuer      *string             `json:"card_issuer,omitempty"`
	GatewayResponse *types.JSONB        `gorm:"type:jsonb" json:"-"`

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
