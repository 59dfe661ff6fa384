// Package presets owns durable filter state: the mirror of the active
// filter configuration and the ordered list of named presets. Both live as
// JSON documents under well-known keys in an injected key-value store, and
// every storage failure degrades to defaults or an empty list with a log
// line; persistence problems are never surfaced as user-facing errors.
package presets

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"equilibrio-api/models"
	"equilibrio-api/storage"
)

// Well-known store keys. Renaming either is a breaking change for existing
// installations.
const (
	ActiveFilterKey = "equilibrio_filter_config"
	PresetsKey      = "equilibrio_filter_presets"
)

// ErrPresetNotFound is returned when no preset has the requested id.
var ErrPresetNotFound = errors.New("preset not found")

// Service provides the active-filter mirror and preset CRUD. Mutations are
// serialized so the read-modify-write of the stored preset list never
// interleaves.
type Service struct {
	store storage.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewService creates a preset service on top of the given store.
func NewService(store storage.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ActiveFilter reads the mirrored filter configuration. A missing,
// unreadable or corrupt value falls back to the documented defaults.
func (s *Service) ActiveFilter(ctx context.Context) models.StockFilter {
	raw, err := s.store.Get(ctx, ActiveFilterKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Failed to load filter config, using defaults: %v", err)
		}
		return models.DefaultStockFilter()
	}

	var filter models.StockFilter
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		log.Printf("Corrupt filter config, using defaults: %v", err)
		return models.DefaultStockFilter()
	}
	return filter
}

// SetActiveFilter mirrors the full criteria object to the store.
func (s *Service) SetActiveFilter(ctx context.Context, filter models.StockFilter) {
	data, err := json.Marshal(filter)
	if err != nil {
		log.Printf("Failed to serialize filter config: %v", err)
		return
	}
	if err := s.store.Set(ctx, ActiveFilterKey, string(data)); err != nil {
		log.Printf("Failed to save filter config: %v", err)
	}
}

// ResetActiveFilter clears the stored mirror and returns the defaults.
func (s *Service) ResetActiveFilter(ctx context.Context) models.StockFilter {
	if err := s.store.Delete(ctx, ActiveFilterKey); err != nil {
		log.Printf("Failed to clear filter config: %v", err)
	}
	return models.DefaultStockFilter()
}

// List returns all presets in stored (append-at-end) order. A corrupt list
// is treated as empty.
func (s *Service) List(ctx context.Context) []models.FilterPreset {
	raw, err := s.store.Get(ctx, PresetsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Failed to load filter presets: %v", err)
		}
		return []models.FilterPreset{}
	}

	var list []models.FilterPreset
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("Corrupt preset list, treating as empty: %v", err)
		return []models.FilterPreset{}
	}
	return list
}

// Get returns one preset by id.
func (s *Service) Get(ctx context.Context, id string) (models.FilterPreset, error) {
	for _, preset := range s.List(ctx) {
		if preset.ID == id {
			return preset, nil
		}
	}
	return models.FilterPreset{}, ErrPresetNotFound
}

// Save validates and appends a new preset with a generated id and fresh
// timestamps.
func (s *Service) Save(ctx context.Context, name, description string, filters models.StockFilter) (models.FilterPreset, error) {
	if err := models.ValidatePreset(name, filters); err != nil {
		return models.FilterPreset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	preset := models.FilterPreset{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Filters:     filters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	list := append(s.List(ctx), preset)
	s.persist(ctx, list)
	return preset, nil
}

// Update replaces a preset's name, description and criteria in place and
// refreshes its UpdatedAt. The stored order is untouched.
func (s *Service) Update(ctx context.Context, id, name, description string, filters models.StockFilter) (models.FilterPreset, error) {
	if err := models.ValidatePreset(name, filters); err != nil {
		return models.FilterPreset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.List(ctx)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i].Name = name
		list[i].Description = description
		list[i].Filters = filters
		list[i].UpdatedAt = s.now().UTC()
		s.persist(ctx, list)
		return list[i], nil
	}
	return models.FilterPreset{}, ErrPresetNotFound
}

// Delete removes a preset by id. Deleting an unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.List(ctx)
	kept := list[:0]
	for _, preset := range list {
		if preset.ID != id {
			kept = append(kept, preset)
		}
	}
	s.persist(ctx, kept)
}

// Apply loads a preset's criteria into the active mirror and returns it.
func (s *Service) Apply(ctx context.Context, id string) (models.StockFilter, error) {
	preset, err := s.Get(ctx, id)
	if err != nil {
		return models.StockFilter{}, err
	}
	s.SetActiveFilter(ctx, preset.Filters)
	return preset.Filters, nil
}

func (s *Service) persist(ctx context.Context, list []models.FilterPreset) {
	data, err := json.Marshal(list)
	if err != nil {
		log.Printf("Failed to serialize preset list: %v", err)
		return
	}
	if err := s.store.Set(ctx, PresetsKey, string(data)); err != nil {
		log.Printf("Failed to save preset list: %v", err)
	}
}
