package engine

import (
	"fmt"

	"github.com/ericogr/escape-the-danger/internal/game"
)

func clampHealth(h, max int) int {
	if h < 0 {
		return 0
	}
	if h > max {
		return max
	}
	return h
}

func maxHealth(p *game.Player, rules game.Rules) int {
	if p.MaxHealth > 0 {
		return p.MaxHealth
	}
	if rules.MaxHealth > 0 {
		return rules.MaxHealth
	}
	return 100
}

// statusDuration falls back to the configured default when a grant carries
// no explicit duration.
func statusDuration(d int, rules game.Rules) int {
	if d > 0 {
		return d
	}
	if rules.DefaultStatusDuration > 0 {
		return rules.DefaultStatusDuration
	}
	return 1
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func displayName(r game.Role) string {
	switch r {
	case game.RoleStreamer:
		return "The Streamer"
	case game.RoleDanger:
		return "The Danger"
	}
	return string(r)
}

func contains(turns []int, turn int) bool {
	for _, t := range turns {
		if t == turn {
			return true
		}
	}
	return false
}
