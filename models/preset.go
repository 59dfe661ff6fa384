package models

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidPreset is returned when a preset fails boundary validation.
var ErrInvalidPreset = errors.New("invalid preset")

// FilterPreset is a named, persisted snapshot of a filter configuration.
// Presets are only ever mutated through an explicit update, which refreshes
// UpdatedAt.
type FilterPreset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Filters     StockFilter `json:"filters"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ValidatePreset rejects presets that must not reach the store: an empty
// name, or a degenerate numeric range (min above max). Degenerate ranges are
// tolerated by the filter engine itself, but saving one is almost certainly
// a user mistake.
func ValidatePreset(name string, filters StockFilter) error {
	if strings.TrimSpace(name) == "" {
		return errors.Join(ErrInvalidPreset, errors.New("preset name is required"))
	}
	if filters.RSIMin > filters.RSIMax {
		return errors.Join(ErrInvalidPreset, errors.New("rsiMin must not exceed rsiMax"))
	}
	if filters.PriceMin > filters.PriceMax {
		return errors.Join(ErrInvalidPreset, errors.New("priceMin must not exceed priceMax"))
	}
	return nil
}
