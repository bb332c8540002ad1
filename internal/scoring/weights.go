package scoring

// ScoreSet maps a category to its raw score, typically 0-10.
type ScoreSet map[string]float64

// WeightSet maps a category to its relative weight. Weights are normalised
// by their total when a score is calculated, so they need not sum to 1.
type WeightSet map[string]float64

var (
	fohWeights = WeightSet{
		Hospitality:        0.4,
		Friendliness:       0.2,
		InternalTeamSkills: 0.2,
		ServiceSkills:      0.1,
		FOHKnowledge:       0.1,
	}

	kitchenWeights = WeightSet{
		WorkEthic:     0.35,
		TeamPlayer:    0.25,
		Adaptability:  0.2,
		CookingSkills: 0.1,
		FoodKnowledge: 0.1,
	}
)

// FOHWeights returns a copy of the front-of-house weight table.
func FOHWeights() WeightSet {
	return fohWeights.Clone()
}

// KitchenWeights returns a copy of the kitchen weight table.
func KitchenWeights() WeightSet {
	return kitchenWeights.Clone()
}

// WeightsFor returns a copy of the role's weight table, or nil for an unknown role.
func WeightsFor(r Role) WeightSet {
	switch r {
	case RoleFOH:
		return FOHWeights()
	case RoleKitchen:
		return KitchenWeights()
	}
	return nil
}

func (w WeightSet) Clone() WeightSet {
	out := make(WeightSet, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func (s ScoreSet) Clone() ScoreSet {
	out := make(ScoreSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
