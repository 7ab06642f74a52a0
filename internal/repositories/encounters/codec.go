package encounters

import (
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
)

func encode(state *entities.CombatState) ([]byte, error) {
	if state == nil {
		return nil, dnderr.InvalidArgument("encounter cannot be nil")
	}
	if state.ID == "" {
		return nil, dnderr.InvalidArgument("encounter ID is required")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal encounter %s: %w", state.ID, err)
	}
	return data, nil
}

func decode(data []byte) (*entities.CombatState, error) {
	var state entities.CombatState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal encounter: %w", err)
	}
	if state.PassivesFired == nil {
		state.PassivesFired = make(map[string]bool)
	}
	return &state, nil
}

func notFound(id string) error {
	return dnderr.NotFoundf("encounter not found: %s", id).WithMeta("encounter_id", id)
}
