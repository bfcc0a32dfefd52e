package models

import "stayhub/src/types"

// SpecialOffer is a host-proposed price for a stay. It flips to accepted
// when the booking it funds is confirmed.
type SpecialOffer struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	PropertyID uint              `json:"property_id"`
	HostID     uint              `json:"host_id"`
	GuestID    uint              `json:"guest_id"`
	Price      float64           `json:"price"`
	Status     types.OfferStatus `gorm:"default:'pending'" json:"status"`

	types.Timestamps
}
