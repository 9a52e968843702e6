package intervention

// UptakeConfig scales every intervention's effect by how widely it is
// actually adopted. The multipliers usually come from a geography profile.
type UptakeConfig struct {
	GlobalMultiplier float64 `json:"globalMultiplier"`
	UrbanMultiplier  float64 `json:"urbanMultiplier"`
	RuralMultiplier  float64 `json:"ruralMultiplier"`
}

// DefaultUptake assumes full global adoption with the usual rural lag.
func DefaultUptake() UptakeConfig {
	return UptakeConfig{
		GlobalMultiplier: 1.0,
		UrbanMultiplier:  1.0,
		RuralMultiplier:  0.6,
	}
}

// Effective computes base x global x setting multiplier, bounded to [0,1].
// An intervention with zero effective uptake contributes nothing.
func (u UptakeConfig) Effective(base float64, urban bool) float64 {
	setting := u.RuralMultiplier
	if urban {
		setting = u.UrbanMultiplier
	}
	up := base * u.GlobalMultiplier * setting
	if up < 0 {
		return 0
	}
	if up > 1 {
		return 1
	}
	return up
}
