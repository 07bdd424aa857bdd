package core

import (
	"context"
	"log/slog"

	"github.com/jdelaire/runbot/core/settings"
)

// Bot wires the settings store, entity runner, dispatcher, and poller
// into one running instance. Reconfiguration replaces the instance
// (stop, start a new one); only the settings snapshot may be swapped
// live through the store.
type Bot struct {
	poller *Poller
	store  *settings.Store
}

// New assembles a bot from its configuration and the injected
// transport and action executor.
func New(cfg Config, transport Transport, executor ActionExecutor, logger *slog.Logger) *Bot {
	store := settings.NewStore(cfg.Settings())
	runner := NewEntityRunner(executor, logger)

	// Help is rendered per call so command-map edits show up without
	// a restart.
	help := func() string { return HelpText(store.Current().Commands) }

	dispatcher := NewDispatcher(store, runner.Run, help, logger)
	poller := NewPoller(transport, dispatcher.Handle, cfg.PollInterval, logger)

	return &Bot{poller: poller, store: store}
}

// Start runs the polling loop. It blocks until Stop is called or ctx
// is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	return b.poller.Start(ctx)
}

// Stop signals the polling loop to exit. Idempotent.
func (b *Bot) Stop() {
	b.poller.Stop()
}

// Settings returns the live settings store, letting the host swap in
// a reparsed command map while the bot runs.
func (b *Bot) Settings() *settings.Store {
	return b.store
}
