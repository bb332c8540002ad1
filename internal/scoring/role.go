package scoring

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRole = errors.New("UNKNOWN_ROLE")

// Role selects which category set and weight table a review uses.
type Role string

const (
	RoleFOH     Role = "foh"
	RoleKitchen Role = "kitchen"
)

// FOH categories.
const (
	Hospitality        = "hospitality"
	Friendliness       = "friendliness"
	InternalTeamSkills = "internalTeamSkills"
	ServiceSkills      = "serviceSkills"
	FOHKnowledge       = "fohKnowledge"
)

// Kitchen categories.
const (
	WorkEthic     = "workEthic"
	TeamPlayer    = "teamPlayer"
	Adaptability  = "adaptability"
	CookingSkills = "cookingSkills"
	FoodKnowledge = "foodKnowledge"
)

var (
	fohCategories     = []string{Hospitality, Friendliness, InternalTeamSkills, ServiceSkills, FOHKnowledge}
	kitchenCategories = []string{WorkEthic, TeamPlayer, Adaptability, CookingSkills, FoodKnowledge}
)

// ParseRole accepts "foh" or "kitchen", case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleFOH, RoleKitchen:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	return r == RoleFOH || r == RoleKitchen
}

func (r Role) String() string {
	return string(r)
}

// Categories returns the role's category keys in display order.
func Categories(r Role) []string {
	switch r {
	case RoleFOH:
		return append([]string(nil), fohCategories...)
	case RoleKitchen:
		return append([]string(nil), kitchenCategories...)
	}
	return nil
}

// EmptyScores returns every category for the role initialised to 0.
func EmptyScores(r Role) ScoreSet {
	cats := Categories(r)
	scores := make(ScoreSet, len(cats))
	for _, c := range cats {
		scores[c] = 0
	}
	return scores
}
