package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericogr/escape-the-danger/internal/game"
	"github.com/ericogr/escape-the-danger/internal/keys"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Cards []CardEntry `yaml:"cards"`
	Items []ItemEntry `yaml:"items"`
}

// CardEntry is a chance card template. Count copies are dealt into every
// new game.
type CardEntry struct {
	Owner       string       `yaml:"owner"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Count       int          `yaml:"count"`
	Effects     game.Effects `yaml:"effects"`
}

// ItemEntry is a catalog item.
type ItemEntry struct {
	Key         string       `yaml:"key"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Cost        int          `yaml:"cost"`
	Available   int          `yaml:"available"`
	Effects     game.Effects `yaml:"effects"`
}

// Deck is the validated content of a deck file.
type Deck struct {
	Cards []game.ChanceCard
	Items []game.Item
}

// ParseDeckFile parses and validates a YAML deck file.
func ParseDeckFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	deck, err := ParseDeck(data)
	if err != nil {
		return nil, fmt.Errorf("deck file %s: %w", path, err)
	}
	return deck, nil
}

// ParseDeck parses and validates deck YAML.
func ParseDeck(data []byte) (*Deck, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	items := make([]game.Item, 0, len(df.Items))
	known := make(map[string]struct{}, len(df.Items))
	for _, it := range df.Items {
		k := keys.ItemKey(it.Key)
		if k == "" {
			k = keys.ItemKey(it.Title)
		}
		if k == "" {
			return nil, fmt.Errorf("item entry missing 'key'")
		}
		if _, dup := known[k]; dup {
			return nil, fmt.Errorf("duplicate item key '%s'", k)
		}
		known[k] = struct{}{}
		if it.Available < 1 {
			return nil, fmt.Errorf("item '%s': available must be at least 1", k)
		}
		if it.Cost < 0 {
			return nil, fmt.Errorf("item '%s': cost must not be negative", k)
		}
		if it.Effects.Delay != 0 {
			return nil, fmt.Errorf("item '%s': items cannot carry a delay", k)
		}
		if err := validateEffects(it.Effects); err != nil {
			return nil, fmt.Errorf("item '%s': %w", k, err)
		}
		title := strings.TrimSpace(it.Title)
		if title == "" {
			title = k
		}
		items = append(items, game.Item{
			Key:         k,
			Title:       title,
			Description: strings.TrimSpace(it.Description),
			Cost:        it.Cost,
			Available:   it.Available,
			Effects:     it.Effects,
		})
	}

	var cards []game.ChanceCard
	for i, c := range df.Cards {
		owner, err := game.ParseRole(c.Owner)
		if err != nil {
			return nil, fmt.Errorf("card %d (%s): %w", i, c.Title, err)
		}
		if strings.TrimSpace(c.Title) == "" {
			return nil, fmt.Errorf("card %d: missing 'title'", i)
		}
		if c.Effects.Delay < 0 {
			return nil, fmt.Errorf("card '%s': delay must not be negative", c.Title)
		}
		if err := validateEffects(c.Effects); err != nil {
			return nil, fmt.Errorf("card '%s': %w", c.Title, err)
		}
		eff := c.Effects
		if eff.InventoryItem != "" {
			eff.InventoryItem = keys.ItemKey(eff.InventoryItem)
			if _, ok := known[eff.InventoryItem]; !ok {
				return nil, fmt.Errorf("card '%s': unknown inventory_item '%s'", c.Title, c.Effects.InventoryItem)
			}
		}
		count := c.Count
		if count <= 0 {
			count = 1
		}
		for n := 0; n < count; n++ {
			cards = append(cards, game.ChanceCard{
				Owner:       owner,
				Title:       strings.TrimSpace(c.Title),
				Description: strings.TrimSpace(c.Description),
				Effects:     eff,
			})
		}
	}

	return &Deck{Cards: cards, Items: items}, nil
}

func validateEffects(e game.Effects) error {
	if !e.Target.Valid() {
		return fmt.Errorf("unknown target '%s'", e.Target)
	}
	if e.ImmuneDuration < 0 || e.VoidDuration < 0 {
		return fmt.Errorf("status durations must not be negative")
	}
	if e.InventoryItemAmount < 0 {
		return fmt.Errorf("inventory_item_amount must not be negative")
	}
	return nil
}
