package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Actions the runner requests from the executor.
const (
	ActionTrigger  = "trigger"
	ActionActivate = "activate"
)

const runTimeout = 30 * time.Second

// ActionExecutor performs an effect for an entity. The entity ID has
// the shape <domain>.<name>; action is one of ActionTrigger or
// ActionActivate.
type ActionExecutor interface {
	Execute(ctx context.Context, domain, action, entityID string) error
}

// EntityRunner validates entity IDs, picks the action for the
// entity's domain, and formats the executor's outcome as a reply.
type EntityRunner struct {
	executor ActionExecutor
	logger   *slog.Logger
}

// NewEntityRunner creates an EntityRunner.
func NewEntityRunner(executor ActionExecutor, logger *slog.Logger) *EntityRunner {
	return &EntityRunner{executor: executor, logger: logger}
}

// Run starts the entity named by target and returns the reply text.
// Automations are triggered; every other domain gets the generic
// activate action. Executor failures come back as reply text, never
// as a fault.
func (r *EntityRunner) Run(ctx context.Context, target string) string {
	target = strings.TrimSpace(target)

	domain, _, ok := strings.Cut(target, ".")
	if !ok || domain == "" {
		return fmt.Sprintf("Invalid entity ID %q. Example: script.pc_off", target)
	}

	action := ActionActivate
	if domain == "automation" {
		action = ActionTrigger
	}

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	if err := r.executor.Execute(ctx, domain, action, target); err != nil {
		r.logger.Error("run failed", "entity_id", target, "action", action, "error", err)
		return fmt.Sprintf("Failed to run %s: %s", target, err)
	}

	r.logger.Info("entity run", "entity_id", target, "action", action)
	return fmt.Sprintf("Started %s", target)
}
