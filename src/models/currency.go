package models

import "stayhub/src/types"

// Currency rates are expressed relative to the same base unit, so a
// cross-currency amount is amount * to.ExchangeRate / from.ExchangeRate.
type Currency struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	Code          string  `gorm:"uniqueIndex;size:8" json:"code"`
	Symbol        string  `json:"symbol,omitempty"`
	ExchangeRate  float64 `json:"exchange_rate"`
	DecimalPlaces int     `gorm:"default:2" json:"decimal_places"`

	types.Timestamps
}
