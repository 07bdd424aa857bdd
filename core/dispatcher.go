package core

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/jdelaire/runbot/core/settings"
)

const (
	helpCommand = "/help"
	runCommand  = "/run"

	deniedReply  = "Access denied."
	usageReply   = "Usage: /run script.pc_off"
	unknownReply = "Unknown command. Send /help."
)

// RunEntityFunc starts the entity named by target and returns the
// reply text describing the outcome.
type RunEntityFunc func(ctx context.Context, target string) string

// HelpFunc returns the current help text.
type HelpFunc func() string

// Dispatcher classifies one inbound message and produces the reply:
// authorization gate, then help / mapped shortcut / generic run /
// unknown, against the settings snapshot current at that moment.
type Dispatcher struct {
	store     *settings.Store
	runEntity RunEntityFunc
	help      HelpFunc
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(store *settings.Store, runEntity RunEntityFunc, help HelpFunc, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		runEntity: runEntity,
		help:      help,
		logger:    logger,
	}
}

// Handle processes one message and returns the reply text. An empty
// return means nothing is sent back.
func (d *Dispatcher) Handle(ctx context.Context, msg InboundMessage) string {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return ""
	}

	id := uuid.New().String()
	snap := d.store.Current()

	if !snap.AllowList.Allows(msg.SenderID) {
		d.logger.Warn("sender denied", "id", id, "sender_id", msg.SenderID, "chat_id", msg.ChatID)
		return deniedReply
	}

	if strings.HasPrefix(text, helpCommand) {
		d.logger.Info("help requested", "id", id, "chat_id", msg.ChatID)
		return d.help()
	}

	cmd := text
	if i := strings.IndexFunc(text, unicode.IsSpace); i != -1 {
		cmd = text[:i]
	}

	if target, ok := snap.Commands.Get(cmd); ok {
		d.logger.Info("shortcut command", "id", id, "command", cmd, "target", target)
		return d.runEntity(ctx, target)
	}

	if strings.HasPrefix(text, runCommand) {
		target := strings.TrimSpace(strings.TrimPrefix(text, cmd))
		if target == "" {
			return usageReply
		}
		d.logger.Info("run command", "id", id, "target", target)
		return d.runEntity(ctx, target)
	}

	d.logger.Info("unknown command", "id", id, "command", cmd)
	return unknownReply
}
