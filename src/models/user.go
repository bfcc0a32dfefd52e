package models

import (
	"stayhub/src/types"
	"time"
)

type User struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	Name          string  `json:"name,omitempty"`
	Email         string  `json:"email,omitempty"`
	Role          string  `json:"role,omitempty"`
	UID           string  `json:"uid,omitempty"`
	EmailVerified bool    `json:"email_verified,omitempty"`
	PhoneVerified bool    `json:"phone_verified,omitempty"`
	VerifiedAt    time.Time `json:"verified_at,omitempty"`
	CurrencyID    *uint   `json:"currency_id,omitempty"`
	Metadata      *types.JSONB `gorm:"type:jsonb" json:"-"`

	Currency      *Currency       `gorm:"foreignKey:currency_id" json:"currency,omitempty"`
	Properties    []Property      `gorm:"foreignKey:host_id" json:"properties,omitempty"`
	Bookings      []Booking       `gorm:"foreignKey:guest_id" json:"bookings,omitempty"`
	PayoutMethods []PayoutMethod  `gorm:"foreignKey:user_id" json:"payout_methods,omitempty"`

	types.Timestamps
}
