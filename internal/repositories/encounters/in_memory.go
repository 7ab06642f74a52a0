package encounters

import (
	"context"
	"sync"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
)

// inMemoryRepository keeps encoded snapshots so callers never share state
// with the store
type inMemoryRepository struct {
	mu         sync.RWMutex
	encounters map[string][]byte
}

// NewInMemoryRepository creates a new in-memory encounter repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		encounters: make(map[string][]byte),
	}
}

// Create stores a new encounter
func (r *inMemoryRepository) Create(ctx context.Context, state *entities.CombatState) error {
	data, err := encode(state)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[state.ID]; exists {
		return dnderr.InvalidArgumentf("encounter with ID %s already exists", state.ID)
	}

	r.encounters[state.ID] = data
	return nil
}

// Get retrieves an encounter by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*entities.CombatState, error) {
	r.mu.RLock()
	data, exists := r.encounters[id]
	r.mu.RUnlock()

	if !exists {
		return nil, notFound(id)
	}

	return decode(data)
}

// Update replaces an existing encounter
func (r *inMemoryRepository) Update(ctx context.Context, state *entities.CombatState) error {
	data, err := encode(state)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[state.ID]; !exists {
		return notFound(state.ID)
	}

	r.encounters[state.ID] = data
	return nil
}

// Delete removes an encounter
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[id]; !exists {
		return notFound(id)
	}

	delete(r.encounters, id)
	return nil
}
