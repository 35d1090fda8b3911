package analysis

import (
	"sort"
	"time"

	"github.com/gitfolio/portfolio-analyzer/internal/types"
)

// maxRecommendations caps the final recommendation list.
const maxRecommendations = 6

// identifyStrengths runs the ordered strength checks against the
// computed metrics and raw data. If nothing fires, a single fallback
// sentence is returned.
func identifyStrengths(metrics MetricSet, profile types.Profile, repos []types.Repository) []string {
	var strengths []string

	if metrics.Documentation.Score >= 15 {
		strengths = append(strengths, "Excellent documentation across repositories with clear descriptions and README files")
	}
	if metrics.Activity.Score >= 15 {
		strengths = append(strengths, "Consistent and recent commit activity showing active development")
	}
	if metrics.Impact.Score >= 10 {
		strengths = append(strengths, "Strong community engagement with stars and forks on repositories")
	}
	if metrics.TechnicalDepth.Score >= 7 {
		strengths = append(strengths, "Diverse technical skill set demonstrated across multiple programming languages")
	}
	if profile.Bio != "" && profile.Location != "" && (profile.Blog != "" || profile.Company != "") {
		strengths = append(strengths, "Complete and professional GitHub profile with detailed information")
	}

	originals := 0
	for _, r := range repos {
		if !r.Fork {
			originals++
		}
	}
	if originals >= 10 {
		strengths = append(strengths, "Substantial portfolio with multiple original projects")
	}

	if len(strengths) == 0 {
		return []string{"Active GitHub presence with room for improvement"}
	}
	return strengths
}

// identifyRedFlags runs the ordered red-flag checks. The recency check
// uses the injected now, not the wall clock.
func identifyRedFlags(metrics MetricSet, profile types.Profile, repos []types.Repository, now time.Time) []string {
	var flags []string

	if metrics.Documentation.Score < 10 {
		flags = append(flags, "Many repositories lack proper documentation and descriptions")
	}
	if metrics.Activity.Score < 8 {
		flags = append(flags, "Limited recent activity - recruiters look for consistent contributions")
	}
	if metrics.Impact.Score < 5 {
		flags = append(flags, "Repositories have minimal community engagement (stars/forks)")
	}
	if profile.Bio == "" || profile.Location == "" {
		flags = append(flags, "Incomplete profile information - missing bio or location")
	}

	if len(repos) > 5 {
		forked := 0
		for _, r := range repos {
			if r.Fork {
				forked++
			}
		}
		if float64(forked)/float64(len(repos)) > 0.7 {
			flags = append(flags, "High proportion of forked repositories - showcase more original work")
		}
	}

	if metrics.TechnicalDepth.Score < 4 {
		flags = append(flags, "Limited language diversity - consider exploring different technologies")
	}

	sixMonthsAgo := now.AddDate(0, -6, 0)
	recentRepos := 0
	for _, r := range repos {
		if r.CreatedAt.After(sixMonthsAgo) {
			recentRepos++
		}
	}
	if recentRepos == 0 && len(repos) > 0 {
		flags = append(flags, "No new repositories in the past 6 months")
	}

	if len(flags) == 0 {
		return []string{"No major red flags identified"}
	}
	return flags
}

// generateRecommendations emits conditional suggestions plus two that
// always apply, stable-sorted by priority and truncated to six. Ties
// keep generation order so high-priority metric gaps surface first.
func generateRecommendations(metrics MetricSet, profile types.Profile) []Recommendation {
	var recs []Recommendation

	if metrics.Documentation.Score < 15 {
		recs = append(recs, Recommendation{
			Title:       "Improve Repository Documentation",
			Description: "Add comprehensive README files with project descriptions, setup instructions, usage examples, and screenshots. Include badges for build status, license, and code coverage.",
			Priority:    PriorityHigh,
			Impact:      "High - Documentation is the first thing recruiters check",
		})
	}

	if metrics.Activity.Score < 12 {
		recs = append(recs, Recommendation{
			Title:       "Increase Commit Consistency",
			Description: "Maintain regular commits even if small. Aim for consistent activity rather than irregular bursts. Use GitHub contribution calendar to track your streak.",
			Priority:    PriorityHigh,
			Impact:      "High - Shows dedication and active skill development",
		})
	}

	if profile.Bio == "" || profile.Location == "" || profile.Blog == "" {
		recs = append(recs, Recommendation{
			Title:       "Complete Your Profile",
			Description: "Add a professional bio, location, personal website/portfolio, and relevant social links. Consider adding a profile README (username/username repository).",
			Priority:    PriorityMedium,
			Impact:      "Medium - First impression matters",
		})
	}

	if metrics.Impact.Score < 8 {
		recs = append(recs, Recommendation{
			Title:       "Build Projects with Real-World Impact",
			Description: "Create projects that solve real problems, contribute to open source, or showcase practical applications. Add project demos and deployment links.",
			Priority:    PriorityHigh,
			Impact:      "High - Demonstrates practical problem-solving ability",
		})
	}

	recs = append(recs, Recommendation{
		Title:       "Pin Your Best Repositories",
		Description: "Use GitHub's pin feature to showcase your top 6 projects. Choose diverse projects that demonstrate different skills and technologies.",
		Priority:    PriorityMedium,
		Impact:      "Medium - Controls recruiter's first impression",
	})

	if metrics.TechnicalDepth.Score < 6 {
		recs = append(recs, Recommendation{
			Title:       "Diversify Your Technical Stack",
			Description: "Explore additional programming languages and frameworks. Build projects using different technologies to show versatility and learning ability.",
			Priority:    PriorityLow,
			Impact:      "Medium - Shows adaptability and continuous learning",
		})
	}

	if metrics.Organization.Score < 10 {
		recs = append(recs, Recommendation{
			Title:       "Organize Your Repositories",
			Description: "Archive or delete old/incomplete projects. Use consistent naming conventions (kebab-case recommended). Add topics/tags to all repositories for discoverability.",
			Priority:    PriorityMedium,
			Impact:      "Medium - Shows attention to detail",
		})
	}

	recs = append(recs, Recommendation{
		Title:       "Add Automated Testing & CI/CD",
		Description: "Implement unit tests and set up GitHub Actions for continuous integration. Add test coverage badges to READMEs to demonstrate code quality.",
		Priority:    PriorityLow,
		Impact:      "High - Signals professional development practices",
	})

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.rank() < recs[j].Priority.rank()
	})

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
