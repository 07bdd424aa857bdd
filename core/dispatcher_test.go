package core

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jdelaire/runbot/core/settings"
)

// --- test helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type runRecorder struct {
	targets []string
	reply   string
}

func (r *runRecorder) run(_ context.Context, target string) string {
	r.targets = append(r.targets, target)
	return r.reply
}

func newTestDispatcher(allowed, commands string, rec *runRecorder) *Dispatcher {
	store := settings.NewStore(Config{AllowedSenders: allowed, Commands: commands}.Settings())
	help := func() string { return HelpText(store.Current().Commands) }
	return NewDispatcher(store, rec.run, help, testLogger())
}

func textMsg(senderID int64, text string) InboundMessage {
	return InboundMessage{
		SequenceID: 1,
		ChatID:     10,
		SenderID:   senderID,
		Text:       text,
	}
}

// --- tests ---

func TestHandleEmptyText(t *testing.T) {
	rec := &runRecorder{}
	d := newTestDispatcher("", "", rec)

	for _, text := range []string{"", "   ", "\n\t"} {
		if got := d.Handle(context.Background(), textMsg(1, text)); got != "" {
			t.Errorf("Handle(%q) = %q, want empty", text, got)
		}
	}
	if len(rec.targets) != 0 {
		t.Errorf("runner called %d times for empty text", len(rec.targets))
	}
}

func TestHandleDeniedSender(t *testing.T) {
	rec := &runRecorder{reply: "ran"}
	d := newTestDispatcher("100", "/pc_off=script.pc_off", rec)

	if got := d.Handle(context.Background(), textMsg(999, "/pc_off")); got != deniedReply {
		t.Errorf("reply = %q, want %q", got, deniedReply)
	}
	if len(rec.targets) != 0 {
		t.Errorf("runner called for denied sender")
	}
}

func TestHandleDeniedNoSender(t *testing.T) {
	rec := &runRecorder{}
	d := newTestDispatcher("100", "", rec)

	if got := d.Handle(context.Background(), textMsg(0, "/help")); got != deniedReply {
		t.Errorf("reply = %q, want %q", got, deniedReply)
	}
}

func TestHandleDenialSkipsClassification(t *testing.T) {
	store := settings.NewStore(Config{AllowedSenders: "100"}.Settings())
	helpCalls := 0
	rec := &runRecorder{}
	d := NewDispatcher(store, rec.run, func() string { helpCalls++; return "help" }, testLogger())

	d.Handle(context.Background(), textMsg(999, "/help"))

	if helpCalls != 0 {
		t.Errorf("help invoked %d times for denied sender, want 0", helpCalls)
	}
}

func TestHandleEmptyAllowListAdmitsAll(t *testing.T) {
	rec := &runRecorder{}
	d := newTestDispatcher("", "", rec)

	for _, senderID := range []int64{0, 42, 999} {
		if got := d.Handle(context.Background(), textMsg(senderID, "/xyz")); got != unknownReply {
			t.Errorf("sender %d: reply = %q, want %q", senderID, got, unknownReply)
		}
	}
}

func TestHandleHelp(t *testing.T) {
	rec := &runRecorder{}
	d := newTestDispatcher("", "/a=script.a", rec)

	got := d.Handle(context.Background(), textMsg(1, "/help"))

	if !strings.Contains(got, "/run <entity_id>") {
		t.Errorf("help = %q, want the /run usage line", got)
	}
	if !strings.Contains(got, "/a → script.a") {
		t.Errorf("help = %q, want the /a shortcut line", got)
	}
}

func TestHandleHelpNoShortcuts(t *testing.T) {
	rec := &runRecorder{}
	d := newTestDispatcher("", "", rec)

	got := d.Handle(context.Background(), textMsg(1, "/help"))

	if strings.Contains(got, "Shortcuts") {
		t.Errorf("help = %q, should not list shortcuts for an empty map", got)
	}
}

func TestHandleHelpReflectsReplacedCommands(t *testing.T) {
	store := settings.NewStore(Config{}.Settings())
	rec := &runRecorder{}
	help := func() string { return HelpText(store.Current().Commands) }
	d := NewDispatcher(store, rec.run, help, testLogger())

	before := d.Handle(context.Background(), textMsg(1, "/help"))

	snap := store.Current()
	snap.Commands = settings.ParseCommandMap("/new=script.new")
	store.Replace(snap)

	after := d.Handle(context.Background(), textMsg(1, "/help"))

	if strings.Contains(before, "/new") {
		t.Errorf("help before reload = %q, should not mention /new", before)
	}
	if !strings.Contains(after, "/new → script.new") {
		t.Errorf("help after reload = %q, want the /new shortcut line", after)
	}
}

func TestHandleShortcutCommand(t *testing.T) {
	rec := &runRecorder{reply: "Started script.pc_off"}
	d := newTestDispatcher("", "/pc_off=script.pc_off", rec)

	got := d.Handle(context.Background(), textMsg(1, "/pc_off"))

	if got != rec.reply {
		t.Errorf("reply = %q, want runner output verbatim %q", got, rec.reply)
	}
	if len(rec.targets) != 1 || rec.targets[0] != "script.pc_off" {
		t.Errorf("runner targets = %v, want [script.pc_off]", rec.targets)
	}
}

func TestHandleShortcutMatchesFirstToken(t *testing.T) {
	rec := &runRecorder{reply: "ok"}
	d := newTestDispatcher("", "/pc_off=script.pc_off", rec)

	d.Handle(context.Background(), textMsg(1, "/pc_off right now"))

	if len(rec.targets) != 1 || rec.targets[0] != "script.pc_off" {
		t.Errorf("runner targets = %v, want [script.pc_off]", rec.targets)
	}
}

func TestHandleShortcutPrecedesGenericRun(t *testing.T) {
	rec := &runRecorder{reply: "ok"}
	d := newTestDispatcher("", "/run=script.weird", rec)

	d.Handle(context.Background(), textMsg(1, "/run script.other"))

	if len(rec.targets) != 1 || rec.targets[0] != "script.weird" {
		t.Errorf("runner targets = %v, want the mapped target", rec.targets)
	}
}

func TestHandleRun(t *testing.T) {
	rec := &runRecorder{reply: "Started script.pc_off"}
	d := newTestDispatcher("", "", rec)

	got := d.Handle(context.Background(), textMsg(1, "/run script.pc_off"))

	if got != rec.reply {
		t.Errorf("reply = %q, want %q", got, rec.reply)
	}
	if len(rec.targets) != 1 || rec.targets[0] != "script.pc_off" {
		t.Errorf("runner targets = %v, want [script.pc_off]", rec.targets)
	}
}

func TestHandleRunNoArgument(t *testing.T) {
	rec := &runRecorder{}
	d := newTestDispatcher("", "", rec)

	for _, text := range []string{"/run", "  /run  "} {
		if got := d.Handle(context.Background(), textMsg(1, text)); got != usageReply {
			t.Errorf("Handle(%q) = %q, want %q", text, got, usageReply)
		}
	}
	if len(rec.targets) != 0 {
		t.Errorf("runner called without an argument")
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	rec := &runRecorder{}
	d := newTestDispatcher("", "/pc_off=script.pc_off", rec)

	if got := d.Handle(context.Background(), textMsg(1, "/xyz")); got != unknownReply {
		t.Errorf("reply = %q, want %q", got, unknownReply)
	}
	if got := d.Handle(context.Background(), textMsg(1, "hello there")); got != unknownReply {
		t.Errorf("reply = %q, want %q", got, unknownReply)
	}
}

func TestHandleSurroundingWhitespace(t *testing.T) {
	rec := &runRecorder{reply: "ok"}
	d := newTestDispatcher("", "", rec)

	d.Handle(context.Background(), textMsg(1, "  /run script.pc_off  \n"))

	if len(rec.targets) != 1 || rec.targets[0] != "script.pc_off" {
		t.Errorf("runner targets = %v, want [script.pc_off]", rec.targets)
	}
}
