package game

// Rules holds the tunable numbers of a match. They are loaded from the
// configuration file; DefaultRules mirrors the values the game launched with.
type Rules struct {
	MaxHealth             int   `json:"max_health"`
	StreamerStart         int   `json:"streamer_start"`
	DangerStart           int   `json:"danger_start"`
	CollisionPenalty      int   `json:"collision_penalty"`
	StreamerDrawTurns     []int `json:"streamer_draw_turns"`
	DangerDrawTurns       []int `json:"danger_draw_turns"`
	DefaultStatusDuration int   `json:"default_status_duration"`
}

func DefaultRules() Rules {
	return Rules{
		MaxHealth:             100,
		StreamerStart:         0,
		DangerStart:           -2,
		CollisionPenalty:      25,
		StreamerDrawTurns:     []int{0, 5, 10, 15},
		DangerDrawTurns:       []int{20},
		DefaultStatusDuration: 1,
	}
}

// DrawTurns returns the scheduled draw turns for role.
func (r Rules) DrawTurns(role Role) []int {
	if role == RoleDanger {
		return r.DangerDrawTurns
	}
	return r.StreamerDrawTurns
}
