package models

import (
	"stayhub/src/types"
	"time"
)

type Booking struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	PropertyID     uint       `json:"property_id,omitempty"`
	GuestID        uint       `json:"guest_id,omitempty"`
	HostID         uint       `json:"host_id,omitempty"`
	StartDate      time.Time  `json:"start_date,omitempty"`
	EndDate        time.Time  `json:"end_date,omitempty"`
	NumGuests      uint8      `json:"num_guests,omitempty"`
	TotalPrice     float64    `json:"total_price,omitempty"`
	TotalDiscount  float64    `json:"total_discount,omitempty"`
	TotalGuestFee  float64    `json:"total_guest_fee,omitempty"`
	TotalHostFee   float64    `json:"total_host_fee,omitempty"`
	CleaningCharge float64    `json:"cleaning_charge,omitempty"`
	BookingStatus  types.BookingStatus `gorm:"default:'pending'" json:"booking_status,omitempty"`
	PaymentStatus  types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	ConfirmationCode *string  `gorm:"uniqueIndex" json:"confirmation_code,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CurrencyID     uint       `json:"currency_id,omitempty"`
	SpecialOfferID *uint      `json:"special_offer_id,omitempty"`

	Property     *Property     `gorm:"foreignKey:property_id" json:"property,omitempty"`
	Guest        *User         `gorm:"foreignKey:guest_id" json:"guest,omitempty"`
	Host         *User         `gorm:"foreignKey:host_id" json:"host,omitempty"`
	Currency     *Currency     `gorm:"foreignKey:currency_id" json:"currency,omitempty"`
	SpecialOffer *SpecialOffer `gorm:"foreignKey:special_offer_id" json:"special_offer,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:booking_id" json:"payments,omitempty"`

	types.Timestamps
}
