package encounters

import (
	"context"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
)

// Repository stores encounter snapshots between actions
type Repository interface {
	// Create stores a new encounter
	Create(ctx context.Context, state *entities.CombatState) error

	// Get retrieves an encounter by ID
	Get(ctx context.Context, id string) (*entities.CombatState, error)

	// Update replaces an existing encounter
	Update(ctx context.Context, state *entities.CombatState) error

	// Delete removes an encounter
	Delete(ctx context.Context, id string) error
}
