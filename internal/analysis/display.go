package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/gitfolio/portfolio-analyzer/internal/types"
)

const (
	maxLanguages    = 6
	maxTopRepos     = 5
	timelineDays    = 90
	fallbackColor   = "#8b8b8b"
	timelineDateFmt = "2006-01-02"
)

// languageColors is the display palette for common primary languages.
var languageColors = map[string]string{
	"JavaScript":       "#f1e05a",
	"TypeScript":       "#2b7489",
	"Python":           "#3572A5",
	"Java":             "#b07219",
	"C++":              "#f34b7d",
	"C":                "#555555",
	"C#":               "#178600",
	"Ruby":             "#701516",
	"Go":               "#00ADD8",
	"Rust":             "#dea584",
	"PHP":              "#4F5D95",
	"Swift":            "#ffac45",
	"Kotlin":           "#F18E33",
	"HTML":             "#e34c26",
	"CSS":              "#563d7c",
	"Shell":            "#89e051",
	"Jupyter Notebook": "#DA5B0B",
}

func languageColor(language string) string {
	if color, ok := languageColors[language]; ok {
		return color
	}
	return fallbackColor
}

// languageDistribution counts repos per primary language, descending by
// count, top six. Repos without a language are excluded. First-seen
// order breaks count ties so the output is deterministic.
func languageDistribution(repos []types.Repository) []LanguageStat {
	counts := make(map[string]int)
	var order []string
	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		if counts[r.Language] == 0 {
			order = append(order, r.Language)
		}
		counts[r.Language]++
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	stats := make([]LanguageStat, 0, len(order))
	for _, name := range order {
		count := counts[name]
		stats = append(stats, LanguageStat{
			Name:       name,
			Count:      count,
			Percentage: math.Round(float64(count)/float64(total)*1000) / 10,
			Color:      languageColor(name),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	if len(stats) > maxLanguages {
		stats = stats[:maxLanguages]
	}
	return stats
}

// repoRank is the display-ranking weight: stars count triple, forks
// double, watchers single.
func repoRank(r types.Repository) int {
	return r.StargazersCount*3 + r.ForksCount*2 + r.WatchersCount
}

// topRepositories returns the five highest-ranked repos, preserving
// input order on ties.
func topRepositories(repos []types.Repository) []types.Repository {
	ranked := make([]types.Repository, len(repos))
	copy(ranked, repos)

	sort.SliceStable(ranked, func(i, j int) bool {
		return repoRank(ranked[i]) > repoRank(ranked[j])
	})

	if len(ranked) > maxTopRepos {
		ranked = ranked[:maxTopRepos]
	}
	return ranked
}

// activityTimeline buckets events by UTC calendar day over the trailing
// 90 days ending at now, oldest first. The level ladder feeds heatmap
// intensity: 0, ≥1→1, ≥3→2, ≥5→3, ≥8→4.
func activityTimeline(events []types.Event, now time.Time) []TimelineDay {
	perDay := make(map[string]int)
	for _, e := range events {
		perDay[e.CreatedAt.UTC().Format(timelineDateFmt)]++
	}

	days := make([]TimelineDay, 0, timelineDays)
	today := now.UTC()
	for i := timelineDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(timelineDateFmt)
		count := perDay[date]

		level := 0
		switch {
		case count >= 8:
			level = 4
		case count >= 5:
			level = 3
		case count >= 3:
			level = 2
		case count >= 1:
			level = 1
		}

		days = append(days, TimelineDay{Date: date, Count: count, Level: level})
	}
	return days
}
