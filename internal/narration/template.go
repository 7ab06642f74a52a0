package narration

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/dungeon-combat/internal/events"
)

var errEmpty = errors.New("narrator returned no text")

// TemplateNarrator writes a fixed line per phase change without any
// external call. It is the offline default.
type TemplateNarrator struct {
	names map[string]string
}

// NewTemplateNarrator creates a narrator resolving ids through names
func NewTemplateNarrator(names map[string]string) *TemplateNarrator {
	return &TemplateNarrator{names: names}
}

// Narrate implements Narrator
func (n *TemplateNarrator) Narrate(ctx context.Context, event events.Event) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if event.Phase == nil {
		return "", fmt.Errorf("event %s/%s has no phase payload", event.Type, event.Subtype)
	}

	switch event.Subtype {
	case events.SubtypeCombatStart:
		return "Two figures circle each other. The fight begins.", nil
	case events.SubtypeRoundStart:
		return fmt.Sprintf("Round %d begins.", event.Round), nil
	case events.SubtypeRoundEnd:
		return fmt.Sprintf("Round %d ends, both fighters breathing hard.", event.Round), nil
	case events.SubtypeCombatEnd:
		if event.Phase.WinnerID == "" {
			return fmt.Sprintf("Neither side prevails (%s).", event.Phase.Reason), nil
		}
		return fmt.Sprintf("%s stands victorious (%s).", n.name(event.Phase.WinnerID), event.Phase.Reason), nil
	}
	return "", fmt.Errorf("no template for %s", event.Subtype)
}

func (n *TemplateNarrator) name(id string) string {
	if name, ok := n.names[id]; ok {
		return name
	}
	return id
}
