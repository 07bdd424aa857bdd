package core

import (
	"fmt"
	"strings"

	"github.com/jdelaire/runbot/core/settings"
)

// HelpText renders the /run usage line plus one line per configured
// shortcut, in the order the shortcuts were configured.
func HelpText(commands settings.CommandMap) string {
	var b strings.Builder
	b.WriteString("Use /run <entity_id> to start an entity (script, automation, scene, switch, ...).")
	if commands.Len() > 0 {
		b.WriteString("\n\nShortcuts:")
		commands.Each(func(cmd, target string) {
			fmt.Fprintf(&b, "\n%s → %s", cmd, target)
		})
	}
	return b.String()
}
