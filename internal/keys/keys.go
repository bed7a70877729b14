package keys

import (
	"strconv"
	"strings"
	"unicode"
)

// ItemKey produces the canonical key for an item name or key.
// Behavior: trims, lower-cases, turns runs of spaces, dashes and other
// separators into a single underscore and drops anything that is not a
// letter or digit. "Health  Potion" and "health-potion" both map to
// "health_potion". Suitable for stable DB keys.
func ItemKey(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	return b.String()
}

// StateKey names the singleflight slot for a game snapshot.
func StateKey(gameID uint) string {
	return "game:" + strconv.FormatUint(uint64(gameID), 10)
}
