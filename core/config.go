package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/jdelaire/runbot/core/settings"
	"github.com/jdelaire/runbot/internal/keychain"
)

const keyringPrefix = "keyring:"

// Config carries the raw configuration strings supplied by the host.
type Config struct {
	// Token is the bot token, or "keyring:<account>" to load it from
	// the system keychain.
	Token string

	// AllowedSenders is a comma-separated list of sender IDs. Empty
	// admits every sender.
	AllowedSenders string

	// Commands maps shortcut commands to entity IDs as "cmd=target"
	// pairs separated by newlines, literal "\n", or ";". Blank lines
	// and "#" comments are ignored.
	Commands string

	// PollInterval overrides the delay between fetches. Zero selects
	// the default.
	PollInterval time.Duration
}

// ResolveToken returns the bot token, loading it from the system
// keychain when Token uses the "keyring:" prefix.
func (c Config) ResolveToken() (string, error) {
	token := strings.TrimSpace(c.Token)
	if token == "" {
		return "", fmt.Errorf("bot token is required")
	}
	if account, ok := strings.CutPrefix(token, keyringPrefix); ok {
		secret, err := keychain.Get(account)
		if err != nil {
			return "", fmt.Errorf("load token from keychain: %w", err)
		}
		return secret, nil
	}
	return token, nil
}

// Settings parses the allow-list and command-map strings into an
// initial settings snapshot.
func (c Config) Settings() settings.Snapshot {
	return settings.Snapshot{
		AllowList: settings.ParseAllowList(c.AllowedSenders),
		Commands:  settings.ParseCommandMap(c.Commands),
	}
}
