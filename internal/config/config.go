package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ericogr/escape-the-danger/internal/game"
)

// DonationMode selects how bits are turned into items.
type DonationMode string

const (
	// DonationBest grants the single most expensive affordable item.
	DonationBest DonationMode = "best"
	// DonationAll grants one of every affordable item.
	DonationAll DonationMode = "all"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Rules are merged over the defaults, so a partial object is fine.
	Rules json.RawMessage `json:"rules"`
	// DeckPath is resolved relative to the config file.
	DeckPath     string `json:"deck_path"`
	DonationMode string `json:"donation_mode"`
	// TurnInterval drives the automatic turn clock, e.g. "30s". Empty or
	// "0" leaves turns to the operator.
	TurnInterval string `json:"turn_interval"`
}

// LoadedConfig contains the rules, deck location and server settings.
type LoadedConfig struct {
	ServerAddress string
	Rules         game.Rules
	DeckPath      string
	DonationMode  DonationMode
	TurnInterval  time.Duration
}

// LoadConfig reads the configuration file at path.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	rules := game.DefaultRules()
	if len(rc.Rules) > 0 {
		if err := json.Unmarshal(rc.Rules, &rules); err != nil {
			return nil, fmt.Errorf("config file %s: invalid 'rules': %w", path, err)
		}
	}
	if err := validateRules(rules); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	mode := DonationMode(strings.ToLower(strings.TrimSpace(rc.DonationMode)))
	switch mode {
	case "":
		mode = DonationBest
	case DonationBest, DonationAll:
	default:
		return nil, fmt.Errorf("config file %s: unknown donation_mode '%s'", path, rc.DonationMode)
	}

	var interval time.Duration
	if s := strings.TrimSpace(rc.TurnInterval); s != "" && s != "0" {
		interval, err = time.ParseDuration(s)
		if err != nil || interval < 0 {
			return nil, fmt.Errorf("config file %s: invalid turn_interval '%s'", path, rc.TurnInterval)
		}
	}

	deck := strings.TrimSpace(rc.DeckPath)
	if deck == "" {
		deck = "deck.yaml"
	}
	if !filepath.IsAbs(deck) {
		deck = filepath.Join(filepath.Dir(path), deck)
	}

	addr := ""
	if rc.Server != nil {
		addr = strings.TrimSpace(rc.Server.Address)
	}

	return &LoadedConfig{
		ServerAddress: addr,
		Rules:         rules,
		DeckPath:      deck,
		DonationMode:  mode,
		TurnInterval:  interval,
	}, nil
}

func validateRules(r game.Rules) error {
	if r.MaxHealth <= 0 {
		return fmt.Errorf("rules.max_health must be positive, got %d", r.MaxHealth)
	}
	if r.CollisionPenalty < 0 {
		return fmt.Errorf("rules.collision_penalty must not be negative, got %d", r.CollisionPenalty)
	}
	if r.DangerStart >= r.StreamerStart {
		return fmt.Errorf("rules.danger_start (%d) must be behind rules.streamer_start (%d)", r.DangerStart, r.StreamerStart)
	}
	if r.DefaultStatusDuration < 1 {
		return fmt.Errorf("rules.default_status_duration must be at least 1, got %d", r.DefaultStatusDuration)
	}
	for _, turns := range [][]int{r.StreamerDrawTurns, r.DangerDrawTurns} {
		for _, t := range turns {
			if t < 0 {
				return fmt.Errorf("draw turns must not be negative, got %d", t)
			}
		}
	}
	return nil
}
