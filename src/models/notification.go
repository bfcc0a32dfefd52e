package models

import (
	"stayhub/src/types"

	"github.com/google/uuid"
)

type Notification struct {
	ID            uuid.UUID    `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID        uint         `gorm:"index" json:"user_id"`
	ReferenceType string       `json:"ref_type"`
	ReferenceID   string       `json:"ref_id"`
	Title         string       `json:"title"`
	Body          *string      `json:"body,omitempty"`
	Data          *types.JSONB `gorm:"type:jsonb" json:"data,omitempty"`
	Type          string       `json:"type"`

	types.Timestamps
}
