package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dungeon-combat/internal/ai"
	"github.com/KirkDiggler/dungeon-combat/internal/config"
	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/metrics"
	"github.com/KirkDiggler/dungeon-combat/internal/narration"
	"github.com/KirkDiggler/dungeon-combat/internal/repositories/encounters"
	"github.com/KirkDiggler/dungeon-combat/internal/script"
	"github.com/KirkDiggler/dungeon-combat/internal/services/encounter"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	roller, seed, err := newRoller(cfg.Combat.Seed)
	if err != nil {
		log.Fatalf("Failed to create roller: %v", err)
	}
	log.Printf("Using seed %d", seed)

	scripts := script.NewRegistry()
	if err := registerScripts(scripts); err != nil {
		log.Fatalf("Failed to register scripts: %v", err)
	}

	repo, cleanup := newRepository(cfg.Redis)
	defer cleanup()

	registry := prometheus.NewRegistry()
	combatMetrics := metrics.NewCombatMetrics(cfg.Metrics.Namespace, registry)

	first, second := wren(), grask()
	narrator := narration.NewService(ctx, &narration.ServiceConfig{
		Narrator: narration.NewTemplateNarrator(map[string]string{
			first.ID:  first.Name,
			second.ID: second.Name,
		}),
		Timeout:  cfg.Narration.Timeout,
		Fallback: cfg.Narration.Fallback,
	})

	svc := encounter.NewService(&encounter.ServiceConfig{
		Roller:     roller,
		Scripts:    scripts,
		Repository: repo,
		Metrics:    combatMetrics,
		Listeners:  []events.Listener{narrator},
		MaxRounds:  cfg.Combat.MaxRounds,
	})

	state, err := svc.Start(ctx, &encounter.StartInput{First: first, Second: second})
	if err != nil {
		log.Fatalf("Failed to start encounter: %v", err)
	}

	if err := svc.Run(ctx, state, ai.NewDefaultPolicy(roller, nil)); err != nil {
		log.Printf("Encounter stopped: %v", err)
	}
	narrator.Wait()

	printLog(os.Stdout, state.Log)

	fmt.Println("== Narration ==")
	for _, n := range narrator.Narrations() {
		fmt.Printf("  %s\n", n.Text)
	}

	if snapshot, err := repo.Get(ctx, state.ID); err != nil {
		log.Printf("Failed to read snapshot: %v", err)
	} else {
		fmt.Printf("== Snapshot %s: round %d, complete %v ==\n", snapshot.ID, snapshot.Round, snapshot.Complete)
	}

	printMetrics(registry)
}

func newRoller(seed int64) (dice.Roller, int64, error) {
	if seed != 0 {
		return dice.NewSeededRoller(seed), seed, nil
	}
	return dice.NewRandomRoller()
}

// newRepository connects to Redis when configured and falls back to memory
func newRepository(cfg config.RedisConfig) (encounters.Repository, func()) {
	if cfg.URL == "" {
		log.Println("No REDIS_URL found, using in-memory snapshots")
		return encounters.NewInMemoryRepository(), func() {}
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v", err)
		log.Println("Falling back to in-memory snapshots")
		return encounters.NewInMemoryRepository(), func() {}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		log.Println("Falling back to in-memory snapshots")
		_ = client.Close()
		return encounters.NewInMemoryRepository(), func() {}
	}

	log.Println("Using Redis for snapshots")
	return encounters.NewRedisRepository(&encounters.RedisRepoConfig{
			Client: client,
			TTL:    cfg.SnapshotTTL,
		}), func() {
			if err := client.Close(); err != nil {
				log.Printf("Error closing Redis client: %v", err)
			}
		}
}

func printMetrics(registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		log.Printf("Failed to gather metrics: %v", err)
		return
	}

	fmt.Println("== Metrics ==")
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := ""
			for _, pair := range metric.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", pair.GetName(), pair.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				fmt.Printf("  %s%s %.0f\n", family.GetName(), labels, metric.GetCounter().GetValue())
			case metric.GetHistogram() != nil:
				fmt.Printf("  %s%s count %d sum %.0f\n", family.GetName(), labels,
					metric.GetHistogram().GetSampleCount(), metric.GetHistogram().GetSampleSum())
			}
		}
	}
}
