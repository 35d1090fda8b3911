package analysis

import (
	"context"
	"math"
	"time"

	"github.com/gitfolio/portfolio-analyzer/internal/types"
)

// Fetcher retrieves the three raw collections an analysis needs. The
// production implementation is the GitHub adapter; tests substitute
// frozen fixtures.
type Fetcher interface {
	FetchAll(ctx context.Context, username string) (types.Profile, []types.Repository, []types.Event, error)
}

// Analyzer runs the full fetch-then-score pipeline.
type Analyzer struct {
	fetcher Fetcher
}

// NewAnalyzer creates an analyzer backed by the given fetcher.
func NewAnalyzer(fetcher Fetcher) *Analyzer {
	return &Analyzer{fetcher: fetcher}
}

// Analyze extracts a username from input, fetches the profile data,
// and evaluates it. Any fetch failure aborts the run; no partial
// result is produced.
func (a *Analyzer) Analyze(ctx context.Context, input string, now time.Time) (*Result, error) {
	username, err := ExtractUsername(input)
	if err != nil {
		return nil, err
	}

	profile, repos, events, err := a.fetcher.FetchAll(ctx, username)
	if err != nil {
		return nil, err
	}

	return Evaluate(profile, repos, events, now), nil
}

// Evaluate scores a frozen snapshot of profile data. It is a pure
// function of (data, now): the same inputs always produce the same
// result, and it never fails; absent fields score zero.
func Evaluate(profile types.Profile, repos []types.Repository, events []types.Event, now time.Time) *Result {
	originals := make([]types.Repository, 0, len(repos))
	for _, r := range repos {
		if !r.Fork {
			originals = append(originals, r)
		}
	}

	metrics := MetricSet{
		Documentation: scoreDocumentation(originals),
		Structure:     scoreStructure(originals),
		// Activity sees the unfiltered collections on purpose; see
		// scoreActivity.
		Activity:       scoreActivity(events, repos, now),
		Organization:   scoreOrganization(profile, originals),
		Impact:         scoreImpact(originals),
		TechnicalDepth: scoreTechnicalDepth(originals),
	}

	overall := overallScore(metrics)

	return &Result{
		Profile:         profile,
		Repos:           repos,
		Events:          events,
		Metrics:         metrics,
		OverallScore:    overall,
		Tier:            TierFor(overall),
		Strengths:       identifyStrengths(metrics, profile, repos),
		RedFlags:        identifyRedFlags(metrics, profile, repos, now),
		Recommendations: generateRecommendations(metrics, profile),
		Languages:       languageDistribution(originals),
		TopRepos:        topRepositories(originals),
		Timeline:        activityTimeline(events, now),
	}
}

// overallScore rounds the sum of the six sub-scores. The per-metric
// ceilings sum to 100 so the range holds by construction; the clamp
// keeps the invariant local.
func overallScore(m MetricSet) int {
	sum := m.Documentation.Score +
		m.Structure.Score +
		m.Activity.Score +
		m.Organization.Score +
		m.Impact.Score +
		m.TechnicalDepth.Score

	score := int(math.Round(sum))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
