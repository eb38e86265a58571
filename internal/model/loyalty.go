// AngelaMos | 2026
// loyalty.go

package model

type LoyaltyTier struct {
	Name      string   `json:"name"`
	Accent    string   `json:"accent"`
	MinPoints int      `json:"minPoints"`
	Benefits  []string `json:"benefits"`
}

// LoyaltyTiers is ordered by ascending MinPoints. The first tier must start
// at zero so every balance maps to a tier.
var LoyaltyTiers = []LoyaltyTier{
	{
		Name:      "Initiate",
		Accent:    "slate",
		MinPoints: 0,
		Benefits:  []string{"10 points per $1 spent", "Member-only newsletter"},
	},
	{
		Name:      "Adept",
		Accent:    "cyan",
		MinPoints: 500,
		Benefits:  []string{"Free standard shipping", "Early access to new decks"},
	},
	{
		Name:      "Master",
		Accent:    "purple",
		MinPoints: 1500,
		Benefits: []string{
			"5% off every order",
			"Priority support",
			"Early access to new decks",
		},
	},
	{
		Name:      "Grandmaster",
		Accent:    "gold",
		MinPoints: 5000,
		Benefits: []string{
			"10% off every order",
			"Free express shipping",
			"Invitations to private releases",
		},
	},
}

type LoyaltyStatus struct {
	Points       int          `json:"points"`
	Current      LoyaltyTier  `json:"current"`
	Next         *LoyaltyTier `json:"next,omitempty"`
	PointsToNext int          `json:"pointsToNext"`
	Percent      float64      `json:"percent"`
}

func TierFor(points int) LoyaltyTier {
	return LoyaltyTiers[tierIndex(points)]
}

func ProgressFor(points int) LoyaltyStatus {
	idx := tierIndex(points)
	current := LoyaltyTiers[idx]

	status := LoyaltyStatus{
		Points:  points,
		Current: current,
		Percent: 100,
	}

	if idx+1 >= len(LoyaltyTiers) {
		return status
	}

	next := LoyaltyTiers[idx+1]
	status.Next = &next
	status.PointsToNext = next.MinPoints - points

	span := next.MinPoints - current.MinPoints
	status.Percent = float64(points-current.MinPoints) / float64(span) * 100
	if status.Percent < 0 {
		status.Percent = 0
	}

	return status
}

func tierIndex(points int) int {
	for i := len(LoyaltyTiers) - 1; i >= 0; i-- {
		if points >= LoyaltyTiers[i].MinPoints {
			return i
		}
	}
	return 0
}
