package model

import (
	"time"
)

// ImmutableModel is embedded into rows that are written once and never
// updated.
type ImmutableModel struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
}
