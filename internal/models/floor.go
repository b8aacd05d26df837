package models

import (
	"time"

	"github.com/google/uuid"
)

// Floor represents a sales floor within a store.
type Floor struct {
	Versioned
	ID        uuid.UUID  `json:"id"`
	StoreID   uuid.UUID  `json:"store_id"`
	Name      string     `json:"name"`
	Number    int16      `json:"number"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (f *Floor) GetID() string { return f.ID.String() }
