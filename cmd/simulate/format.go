package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/KirkDiggler/dungeon-combat/internal/events"
)

func printLog(w io.Writer, eventLog *events.Log) {
	for _, round := range eventLog.Rounds {
		fmt.Fprintf(w, "== Round %d ==\n", round.Number)
		for _, event := range round.Events {
			if line := describe(event); line != "" {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

func describe(event events.Event) string {
	switch {
	case event.SkillCheck != nil:
		c := event.SkillCheck
		if !c.Opposed {
			return fmt.Sprintf("[check] %s %s rolled %d vs %d (success: %v)", event.ActorID, c.Skill, c.Roll, c.Target, c.Success)
		}
		return fmt.Sprintf("[check] %s %s %d/%d vs %s %s %d/%d, attacker wins: %v",
			event.ActorID, c.Skill, c.Roll, c.Target, event.TargetID, c.DefenseSkill, c.DefenderRoll, c.DefenderTarget, c.AttackerWins)
	case event.Ability != nil:
		a := event.Ability
		if !a.Success {
			return fmt.Sprintf("[ability] %s cannot use %s: %s", event.ActorID, a.Trait, a.Reason)
		}
		prefix := ""
		if a.Passive {
			prefix = "passive "
		}
		return fmt.Sprintf("[ability] %s uses %s%s", event.ActorID, prefix, a.Trait)
	case event.Effect != nil:
		if event.Effect.Message == "" {
			return ""
		}
		return fmt.Sprintf("[effect] %s: %s", strings.ToLower(event.Effect.Kind), event.Effect.Message)
	case event.Status != nil:
		s := event.Status
		return fmt.Sprintf("[status] %s %s on %s (%d -> %d)", s.Name, event.Subtype, event.ActorID, s.PreviousStacks, s.Stacks)
	case event.Initiative != nil:
		return fmt.Sprintf("[initiative] rolls %v, order %s", event.Initiative.Rolls, strings.Join(event.Initiative.Order, " then "))
	case event.Phase != nil:
		if event.Phase.WinnerID != "" {
			return fmt.Sprintf("[phase] %s: %s wins (%s)", event.Subtype, event.Phase.WinnerID, event.Phase.Reason)
		}
		if event.Phase.Reason != "" {
			return fmt.Sprintf("[phase] %s (%s)", event.Subtype, event.Phase.Reason)
		}
		return fmt.Sprintf("[phase] %s", event.Subtype)
	}
	return ""
}
