// Package settings holds the per-instance runtime configuration a
// bot consults on every message: the sender allow list and the
// shortcut command map.
package settings

import (
	"strconv"
	"strings"
	"sync"
)

// AllowList is the set of sender IDs permitted to issue commands.
type AllowList map[int64]struct{}

// Allows reports whether the sender may issue commands. An empty
// allow list admits everyone, including messages with no sender; a
// non-empty list denies messages with no sender.
func (a AllowList) Allows(senderID int64) bool {
	if len(a) == 0 {
		return true
	}
	if senderID == 0 {
		return false
	}
	_, ok := a[senderID]
	return ok
}

// ParseAllowList parses a comma-separated list of sender IDs.
// Entries that are not integers are skipped.
func ParseAllowList(raw string) AllowList {
	out := AllowList{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}

// CommandMap maps shortcut commands to entity IDs, preserving the
// order mappings were added so help text lists them as configured.
type CommandMap struct {
	order   []string
	targets map[string]string
}

// Set adds or updates a mapping. An updated command keeps its
// original position.
func (m *CommandMap) Set(cmd, target string) {
	if m.targets == nil {
		m.targets = make(map[string]string)
	}
	if _, exists := m.targets[cmd]; !exists {
		m.order = append(m.order, cmd)
	}
	m.targets[cmd] = target
}

// Get returns the target for a command.
func (m CommandMap) Get(cmd string) (string, bool) {
	target, ok := m.targets[cmd]
	return target, ok
}

// Len returns the number of mappings.
func (m CommandMap) Len() int {
	return len(m.order)
}

// Each calls fn for every mapping in insertion order.
func (m CommandMap) Each(fn func(cmd, target string)) {
	for _, cmd := range m.order {
		fn(cmd, m.targets[cmd])
	}
}

// ParseCommandMap parses "cmd=target" pairs separated by newlines, a
// literal "\n" typed into a single-line field, or ";". Blank entries
// and "#" comments are skipped; the first "=" splits the pair and
// both sides are trimmed.
func ParseCommandMap(raw string) CommandMap {
	var m CommandMap

	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, `\n`, "\n")

	for _, line := range strings.Split(raw, "\n") {
		for _, item := range strings.Split(line, ";") {
			item = strings.TrimSpace(item)
			if item == "" || strings.HasPrefix(item, "#") {
				continue
			}
			cmd, target, ok := strings.Cut(item, "=")
			if !ok {
				continue
			}
			cmd = strings.TrimSpace(cmd)
			target = strings.TrimSpace(target)
			if cmd == "" || target == "" {
				continue
			}
			m.Set(cmd, target)
		}
	}
	return m
}

// Snapshot is one immutable view of the settings.
type Snapshot struct {
	AllowList AllowList
	Commands  CommandMap
}

// Store holds the current settings snapshot and swaps it atomically
// on reconfiguration.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates a store holding the given snapshot.
func NewStore(snap Snapshot) *Store {
	return &Store{snap: snap}
}

// Current returns the snapshot in effect.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace swaps in a new snapshot wholesale.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}
