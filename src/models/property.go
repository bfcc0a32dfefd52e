package models

import "stayhub/src/types"

type Property struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	HostID        uint   `json:"host_id,omitempty"`
	Slug          string `gorm:"index" json:"slug,omitempty"`
	CoverImageKey string `json:"cover_image,omitempty"`
	Country       string `json:"country,omitempty"`
	City          string `json:"city,omitempty"`
	CurrencyID    *uint  `json:"currency_id,omitempty"`

	Host         *User                 `gorm:"foreignKey:host_id" json:"host,omitempty"`
	Currency     *Currency             `gorm:"foreignKey:currency_id" json:"currency,omitempty"`
	Descriptions []PropertyDescription `gorm:"foreignKey:property_id" json:"descriptions,omitempty"`

	types.Timestamps
}

// PropertyDescription holds the per-locale listing copy. Title resolution
// for message metadata picks the requested locale and falls back to the
// first row.
type PropertyDescription struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	PropertyID uint   `gorm:"index:idx_property_locale,unique" json:"property_id"`
	Locale     string `gorm:"index:idx_property_locale,unique;size:8" json:"locale"`
	Title      string `json:"title"`
	Summary    string `json:"summary,omitempty"`

	types.Timestamps
}
