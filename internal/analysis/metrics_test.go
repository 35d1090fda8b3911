package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gitfolio/portfolio-analyzer/internal/types"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func TestClimb(t *testing.T) {
	tests := []struct {
		name   string
		value  int
		ladder []ladderStep
		want   float64
	}{
		{"below lowest step", 0, recentActivityLadder, 0},
		{"exactly lowest step", 1, recentActivityLadder, 3},
		{"mid ladder", 12, recentActivityLadder, 7},
		{"top step", 20, recentActivityLadder, 10},
		{"far above top", 500, starsLadder, 7},
		{"empty ladder", 10, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, climb(tt.value, tt.ladder))
		})
	}
}

func TestScoreDocumentation(t *testing.T) {
	tests := []struct {
		name        string
		repos       []types.Repository
		wantScore   float64
		wantDetails string
	}{
		{
			name:        "no repositories",
			repos:       nil,
			wantScore:   0,
			wantDetails: "0 repositories analyzed for documentation quality",
		},
		{
			name: "fully documented repo maxes out",
			repos: []types.Repository{{
				Name:        "well-documented",
				Description: "a long and detailed project description",
				Size:        500,
				Homepage:    "https://example.com",
				Topics:      []string{"go", "api"},
			}},
			wantScore:   20,
			wantDetails: "1 repositories analyzed for documentation quality",
		},
		{
			name: "short description only",
			repos: []types.Repository{{
				Name:        "bare",
				Description: "tiny",
				Size:        10,
			}},
			// raw 2 + 3 of 10, rescaled to 20
			wantScore: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := scoreDocumentation(tt.repos)
			assert.InDelta(t, tt.wantScore, m.Score, 0.001)
			assert.Equal(t, 20, m.MaxScore)
			if tt.wantDetails != "" {
				assert.Equal(t, tt.wantDetails, m.Details)
			}
		})
	}
}

func TestScoreStructure(t *testing.T) {
	repos := []types.Repository{
		{Name: "structured", Size: 500},
		{Name: "tiny", Size: 5},
	}

	m := scoreStructure(repos)
	assert.InDelta(t, 10, m.Score, 0.001)
	assert.Equal(t, "1 out of 2 repos show good structure", m.Details)

	empty := scoreStructure(nil)
	assert.Zero(t, empty.Score)
}

func TestScoreActivity(t *testing.T) {
	eventsAt := func(age time.Duration, n int) []types.Event {
		events := make([]types.Event, n)
		for i := range events {
			events[i] = types.Event{Type: "PushEvent", CreatedAt: testNow.Add(-age)}
		}
		return events
	}

	tests := []struct {
		name      string
		events    []types.Event
		wantScore float64
	}{
		{"no events", nil, 0},
		{
			// 25 events count for both windows
			name:      "very active profile clamps at max",
			events:    eventsAt(24*time.Hour, 25),
			wantScore: 20,
		},
		{
			// outside 30 days, inside 90
			name:      "older activity counts only medium window",
			events:    eventsAt(60*24*time.Hour, 6),
			wantScore: 3,
		},
		{
			name:      "stale events score nothing",
			events:    eventsAt(200*24*time.Hour, 50),
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := scoreActivity(tt.events, nil, testNow)
			assert.InDelta(t, tt.wantScore, m.Score, 0.001)
			assert.Equal(t, 20, m.MaxScore)
		})
	}
}

func TestScoreActivityIgnoresRepoList(t *testing.T) {
	repos := []types.Repository{{Name: "anything", Fork: true}}
	withRepos := scoreActivity(nil, repos, testNow)
	withoutRepos := scoreActivity(nil, nil, testNow)
	assert.Equal(t, withoutRepos, withRepos)
}

func TestScoreOrganization(t *testing.T) {
	fullProfile := types.Profile{
		Bio:      "engineer",
		Location: "Berlin",
		Blog:     "https://example.dev",
		Company:  "ACME",
	}
	repos := []types.Repository{
		{Name: "repo-one", StargazersCount: 5},
		{Name: "repo-two", StargazersCount: 2},
		{Name: "repo-three", StargazersCount: 1},
	}

	// profile 5 + quality ladder 3 + consistent naming 5
	m := scoreOrganization(fullProfile, repos)
	assert.InDelta(t, 13, m.Score, 0.001)
	assert.Equal(t, 15, m.MaxScore)

	// empty everything still earns the inconsistent-naming base of 2
	empty := scoreOrganization(types.Profile{}, nil)
	assert.InDelta(t, 2, empty.Score, 0.001)
}

func TestHasConsistentNaming(t *testing.T) {
	tests := []struct {
		name  string
		repos []string
		want  bool
	}{
		{"no repos", nil, false},
		{"mostly kebab case", []string{"my-api", "my-cli", "my-lib", "other"}, true},
		{"mostly snake case", []string{"my_api", "my_cli", "my_lib", "other"}, true},
		{"mixed styles", []string{"my-api", "my_cli", "plain", "other"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := make([]types.Repository, len(tt.repos))
			for i, name := range tt.repos {
				repos[i] = types.Repository{Name: name}
			}
			assert.Equal(t, tt.want, hasConsistentNaming(repos))
		})
	}
}

func TestScoreImpact(t *testing.T) {
	repos := []types.Repository{
		{Name: "popular", StargazersCount: 100, ForksCount: 15, WatchersCount: 15},
		{Name: "modest", StargazersCount: 20, ForksCount: 10, WatchersCount: 10},
	}

	// 120 stars -> 7, 25 forks -> 4, 25 watchers -> 4
	m := scoreImpact(repos)
	assert.InDelta(t, 15, m.Score, 0.001)
	assert.Equal(t, "120 stars, 25 forks across all repositories", m.Details)

	assert.Zero(t, scoreImpact(nil).Score)
}

func TestScoreTechnicalDepth(t *testing.T) {
	repos := make([]types.Repository, 0, 20)
	languages := []string{"Go", "Python", "Rust", "TypeScript", "C"}
	for i := 0; i < 20; i++ {
		repos = append(repos, types.Repository{
			Name:     "repo",
			Language: languages[i%len(languages)],
		})
	}

	// 5 languages -> 5, 20 repos -> 5
	m := scoreTechnicalDepth(repos)
	assert.InDelta(t, 10, m.Score, 0.001)
	assert.Equal(t, 10, m.MaxScore)

	single := scoreTechnicalDepth([]types.Repository{{Name: "only", Language: "Go"}})
	assert.InDelta(t, 2, single.Score, 0.001)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-3, 20))
	assert.Equal(t, 20.0, clampScore(25, 20))
	assert.Equal(t, 12.5, clampScore(12.5, 20))
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score     int
		wantBadge string
	}{
		{100, "Recruiter Ready"},
		{80, "Recruiter Ready"},
		{79, "Above Average"},
		{60, "Above Average"},
		{59, "Needs Work"},
		{40, "Needs Work"},
		{39, "Work in Progress"},
		{0, "Work in Progress"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantBadge, TierFor(tt.score).Badge, "score %d", tt.score)
	}
}
