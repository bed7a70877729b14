package game

// Effects is the bundle of adjustments carried by a chance card or an
// inventory item. All fields are optional; zero values are no-ops.
type Effects struct {
	Move   int `json:"move,omitempty" yaml:"move"`
	Health int `json:"health,omitempty" yaml:"health"`

	Immune         bool `json:"immune,omitempty" yaml:"immune"`
	ImmuneDuration int  `json:"immune_duration,omitempty" yaml:"immune_duration"`

	Void         bool `json:"void,omitempty" yaml:"void"`
	VoidDuration int  `json:"void_duration,omitempty" yaml:"void_duration"`

	// Delay is the number of turns before the whole bundle takes effect.
	Delay int `json:"delay,omitempty" yaml:"delay"`

	Target Target `json:"target,omitempty" yaml:"target"`

	InventoryItem       string `json:"inventory_item,omitempty" yaml:"inventory_item"`
	InventoryItemAmount int    `json:"inventory_item_amount,omitempty" yaml:"inventory_item_amount"`
}

// IsEmpty reports whether applying e would change nothing.
func (e Effects) IsEmpty() bool {
	return e.Move == 0 && e.Health == 0 && !e.Immune && !e.Void && e.InventoryItem == ""
}

// Resolved returns a copy of e with the delay cleared, ready to apply.
func (e Effects) Resolved() Effects {
	e.Delay = 0
	return e
}

// PendingEffect is a delayed bundle waiting in a player's queue.
type PendingEffect struct {
	Effects         Effects `json:"effects"`
	RoundsRemaining int     `json:"rounds_remaining"`
	// Source is the title of the card that scheduled the effect.
	Source string `json:"source"`
}
