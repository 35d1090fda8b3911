package analysis

// scoreTier pairs a minimum overall score with its display band.
type scoreTier struct {
	minScore int
	tier     Tier
}

// Evaluated top-down; the first band whose minimum the score meets
// wins.
var tiers = []scoreTier{
	{
		minScore: 80,
		tier: Tier{
			Title:       "Excellent Profile! 🌟",
			Description: "Your GitHub profile is impressive and recruiter-ready. Keep up the great work!",
			Badge:       "Recruiter Ready",
		},
	},
	{
		minScore: 60,
		tier: Tier{
			Title:       "Good Profile! 👍",
			Description: "Your profile is solid with room for improvement. Follow the recommendations to stand out more.",
			Badge:       "Above Average",
		},
	},
	{
		minScore: 40,
		tier: Tier{
			Title:       "Average Profile",
			Description: "Your profile needs attention. Focus on the high-priority recommendations below.",
			Badge:       "Needs Work",
		},
	},
	{
		minScore: 0,
		tier: Tier{
			Title:       "Profile Needs Improvement",
			Description: "Significant improvements needed to be competitive. Start with the recommendations below.",
			Badge:       "Work in Progress",
		},
	},
}

// TierFor classifies an overall score into its display band.
func TierFor(score int) Tier {
	for _, t := range tiers {
		if score >= t.minScore {
			return t.tier
		}
	}
	return tiers[len(tiers)-1].tier
}
