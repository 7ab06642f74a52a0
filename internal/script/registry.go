// Package script runs content-authored SCRIPT effects. Procedures are
// registered up front by id, either as Go callbacks or as Lua chunks that
// run in a fresh interpreter with only the Env helpers available.
package script

import (
	"fmt"
	"log"
	"sync"

	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
)

// Procedure is a registered script. It reports success and an optional message.
type Procedure func(env *Env) (bool, string)

// Outcome is the result of running a procedure
type Outcome struct {
	Success bool
	Message string
}

// Registry maps script ids to procedures
type Registry struct {
	mu    sync.RWMutex
	procs map[string]Procedure
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]Procedure)}
}

// Register adds a Go procedure
func (r *Registry) Register(id string, proc Procedure) error {
	if id == "" {
		return dnderr.InvalidArgument("script id is required")
	}
	if proc == nil {
		return dnderr.InvalidArgumentf("script %s has no procedure", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.procs[id]; exists {
		return dnderr.Configurationf("script %s already registered", id)
	}
	r.procs[id] = proc

	log.Printf("[SCRIPT] Registered %s", id)
	return nil
}

// Has reports whether the id is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.procs[id]
	return ok
}

// Run executes a procedure. An unregistered id is a configuration error.
// A panicking procedure is reported as a failed outcome.
func (r *Registry) Run(id string, env *Env) (outcome Outcome, err error) {
	r.mu.RLock()
	proc, ok := r.procs[id]
	r.mu.RUnlock()

	if !ok {
		return Outcome{}, dnderr.Configurationf("script %s is not registered", id).WithMeta("script_id", id)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("[SCRIPT] %s panicked: %v", id, recovered)
			outcome = Outcome{Success: false, Message: fmt.Sprintf("script %s failed: %v", id, recovered)}
			err = nil
		}
	}()

	success, message := proc(env)
	return Outcome{Success: success, Message: message}, nil
}
