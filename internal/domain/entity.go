package domain

import (
	"time"
)

// SymbolInfo represents persisted metadata for a tracked symbol
type SymbolInfo struct {
	Symbol       string    `gorm:"primaryKey" json:"symbol"`
	Name         string    `json:"name"`
	LogoPath     string    `json:"logo_path"`
	IsActive     bool      `json:"is_active" gorm:"index"`   // Part of the active universe
	IsFavorite   bool      `json:"is_favorite" gorm:"index"` // User favorite status
	LastSyncedAt time.Time `json:"last_synced_at"`           // Last logo sync time
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
