package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemKey(t *testing.T) {
	cases := map[string]string{
		"Health Potion":     "health_potion",
		"  health-potion  ": "health_potion",
		"SHIELD":            "shield",
		"Lucky  Coin #2":    "lucky_coin_2",
		"":                  "",
		"---":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ItemKey(in), "input %q", in)
	}
}

func TestStateKey(t *testing.T) {
	assert.Equal(t, "game:42", StateKey(42))
}
