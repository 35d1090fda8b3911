package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gitfolio/portfolio-analyzer/internal/types"
)

// ladderStep is one (threshold, points) pair of a threshold ladder.
// Ladders are evaluated highest threshold first; the first matching
// step wins.
type ladderStep struct {
	min    int
	points float64
}

func climb(value int, ladder []ladderStep) float64 {
	for _, step := range ladder {
		if value >= step.min {
			return step.points
		}
	}
	return 0
}

// Scoring ladders. These thresholds are the fixed contract of the
// rubric; changing any of them changes scores for every profile.
var (
	recentActivityLadder = []ladderStep{{20, 10}, {10, 7}, {5, 5}, {1, 3}}
	mediumActivityLadder = []ladderStep{{40, 10}, {20, 7}, {10, 5}, {5, 3}}
	qualityRepoLadder    = []ladderStep{{6, 5}, {3, 3}, {1, 1}}
	starsLadder          = []ladderStep{{100, 7}, {50, 5}, {20, 4}, {10, 3}, {5, 2}, {1, 1}}
	forksLadder          = []ladderStep{{20, 4}, {10, 3}, {5, 2}, {1, 1}}
	watchersLadder       = []ladderStep{{20, 4}, {10, 3}, {5, 2}, {1, 1}}
	languagesLadder      = []ladderStep{{5, 5}, {3, 3}, {2, 2}, {1, 1}}
	repoCountLadder      = []ladderStep{{20, 5}, {10, 4}, {5, 3}, {3, 2}, {1, 1}}
)

func clampScore(score float64, max int) float64 {
	if score < 0 {
		return 0
	}
	if m := float64(max); score > m {
		return m
	}
	return score
}

// scoreDocumentation rates repository documentation quality (max 20).
// Each repo earns up to 10 raw points: long description 4 (short 2),
// non-empty repo 3, homepage 2, topics 1. The average is rescaled to
// the 0-20 range.
func scoreDocumentation(repos []types.Repository) SubMetric {
	total := 0.0
	for _, r := range repos {
		raw := 0.0
		switch {
		case len(r.Description) > 20:
			raw += 4
		case r.Description != "":
			raw += 2
		}
		if r.Size > 0 {
			raw += 3
		}
		if r.Homepage != "" {
			raw += 2
		}
		if len(r.Topics) > 0 {
			raw++
		}
		total += raw
	}

	score := 0.0
	if len(repos) > 0 {
		score = total / float64(len(repos)) / 10 * 20
	}

	return SubMetric{
		Score:    clampScore(score, 20),
		MaxScore: 20,
		Details:  fmt.Sprintf("%d repositories analyzed for documentation quality", len(repos)),
	}
}

// scoreStructure rates the share of repos showing structure signals
// (max 20). A repo counts if it has non-trivial size, at least two
// topics, or any stars.
func scoreStructure(repos []types.Repository) SubMetric {
	structured := 0
	for _, r := range repos {
		if r.Size > 100 || len(r.Topics) >= 2 || r.StargazersCount > 0 {
			structured++
		}
	}

	score := 0.0
	if len(repos) > 0 {
		score = math.Round(float64(structured) / float64(len(repos)) * 20)
	}

	return SubMetric{
		Score:    clampScore(score, 20),
		MaxScore: 20,
		Details:  fmt.Sprintf("%d out of %d repos show good structure", structured, len(repos)),
	}
}

// scoreActivity rates event recency over 30- and 90-day windows ending
// at now (max 20). It deliberately sees the full event feed and the
// unfiltered repo list: forks still represent activity. The repo list
// is part of the contract even though only events drive the score.
func scoreActivity(events []types.Event, repos []types.Repository, now time.Time) SubMetric {
	_ = repos

	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)
	ninetyDaysAgo := now.Add(-90 * 24 * time.Hour)

	recent, medium := 0, 0
	for _, e := range events {
		if e.CreatedAt.After(thirtyDaysAgo) {
			recent++
		}
		if e.CreatedAt.After(ninetyDaysAgo) {
			medium++
		}
	}

	score := climb(recent, recentActivityLadder) + climb(medium, mediumActivityLadder)

	return SubMetric{
		Score:    clampScore(score, 20),
		MaxScore: 20,
		Details:  fmt.Sprintf("%d events in last 30 days, %d in last 90 days", recent, medium),
	}
}

// scoreOrganization rates profile completeness, presence of quality
// repos, and naming consistency (max 15).
func scoreOrganization(profile types.Profile, repos []types.Repository) SubMetric {
	score := 0.0
	if profile.Bio != "" {
		score += 2
	}
	if profile.Location != "" {
		score++
	}
	if profile.Blog != "" {
		score++
	}
	if profile.Company != "" {
		score++
	}

	quality := 0
	for _, r := range repos {
		if r.StargazersCount > 0 || len(r.Description) > 30 {
			quality++
		}
	}
	score += climb(quality, qualityRepoLadder)

	if hasConsistentNaming(repos) {
		score += 5
	} else {
		score += 2
	}

	return SubMetric{
		Score:    clampScore(score, 15),
		MaxScore: 15,
		Details:  "Profile completeness and repository organization",
	}
}

// hasConsistentNaming reports whether more than 60% of repo names use
// the same separator style (kebab-case or snake_case).
func hasConsistentNaming(repos []types.Repository) bool {
	if len(repos) == 0 {
		return false
	}

	hyphenated, underscored := 0, 0
	for _, r := range repos {
		if strings.Contains(r.Name, "-") {
			hyphenated++
		}
		if strings.Contains(r.Name, "_") {
			underscored++
		}
	}

	total := float64(len(repos))
	return float64(hyphenated)/total > 0.6 || float64(underscored)/total > 0.6
}

// scoreImpact rates aggregate community engagement (max 15) from total
// stars, forks, and watchers across original repos.
func scoreImpact(repos []types.Repository) SubMetric {
	stars, forks, watchers := 0, 0, 0
	for _, r := range repos {
		stars += r.StargazersCount
		forks += r.ForksCount
		watchers += r.WatchersCount
	}

	score := climb(stars, starsLadder) + climb(forks, forksLadder) + climb(watchers, watchersLadder)

	return SubMetric{
		Score:    clampScore(score, 15),
		MaxScore: 15,
		Details:  fmt.Sprintf("%d stars, %d forks across all repositories", stars, forks),
	}
}

// scoreTechnicalDepth rates language diversity and portfolio size
// (max 10).
func scoreTechnicalDepth(repos []types.Repository) SubMetric {
	languages := make(map[string]struct{})
	for _, r := range repos {
		if r.Language != "" {
			languages[r.Language] = struct{}{}
		}
	}

	score := climb(len(languages), languagesLadder) + climb(len(repos), repoCountLadder)

	return SubMetric{
		Score:    clampScore(score, 10),
		MaxScore: 10,
		Details:  fmt.Sprintf("%d different languages, %d repositories", len(languages), len(repos)),
	}
}
