package models

import (
	"stayhub/src/types"
	"time"

	"github.com/google/uuid"
)

// Payout is the host earning record for a paid booking. The unique index
// on booking_id is the de-duplication key against repeated success
// callbacks.
type Payout struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	HostID         uint               `json:"host_id"`
	BookingID      uint               `gorm:"uniqueIndex" json:"booking_id"`
	PayoutMethodID *uint              `json:"payout_method_id,omitempty"`
	CurrencyID     uint               `json:"currency_id"`
	Amount         float64            `json:"amount"`
	PayoutDate     time.Time          `json:"payout_date"`
	Status         types.PayoutStatus `gorm:"default:'scheduled'" json:"status"`

	Host         *User         `gorm:"foreignKey:host_id" json:"-"`
	Booking      *Booking      `gorm:"foreignKey:booking_id" json:"-"`
	PayoutMethod *PayoutMethod `gorm:"foreignKey:payout_method_id" json:"payout_method,omitempty"`

	types.Timestamps
}

type PayoutMethod struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	UserID     uint   `json:"user_id"`
	Type       string `json:"type,omitempty"`
	AccountRef string `json:"account_ref,omitempty"`
	IsDefault  bool   `json:"is_default"`

	types.Timestamps
}
