package analysis

import "github.com/gitfolio/portfolio-analyzer/internal/types"

// SubMetric is one scoring dimension. Score is always within
// [0, MaxScore]; Details is a human-readable summary for display.
type SubMetric struct {
	Score    float64 `json:"score"`
	MaxScore int     `json:"maxScore"`
	Details  string  `json:"details"`
}

// MetricSet holds the six sub-metrics of an analysis. The ceilings sum
// to exactly 100.
type MetricSet struct {
	Documentation  SubMetric `json:"documentation"`
	Structure      SubMetric `json:"structure"`
	Activity       SubMetric `json:"activity"`
	Organization   SubMetric `json:"organization"`
	Impact         SubMetric `json:"impact"`
	TechnicalDepth SubMetric `json:"technicalDepth"`
}

// Priority classifies a recommendation by urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// rank orders priorities for sorting, most urgent first.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Recommendation is one actionable suggestion derived from the metrics.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Impact      string   `json:"impact"`
}

// LanguageStat summarizes one primary language across original repos.
type LanguageStat struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// TimelineDay is one calendar day (UTC) in the 90-day activity heatmap.
type TimelineDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Tier is the qualitative band an overall score falls into.
type Tier struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Badge       string `json:"badge"`
}

// Result is the complete outcome of one analysis run. It is built once
// and never mutated afterwards; the caller owns it exclusively.
type Result struct {
	Profile         types.Profile      `json:"profile"`
	Repos           []types.Repository `json:"repos"`
	Events          []types.Event      `json:"events"`
	Metrics         MetricSet          `json:"metrics"`
	OverallScore    int                `json:"overallScore"`
	Tier            Tier               `json:"tier"`
	Strengths       []string           `json:"strengths"`
	RedFlags        []string           `json:"redFlags"`
	Recommendations []Recommendation   `json:"recommendations"`
	Languages       []LanguageStat     `json:"languages"`
	TopRepos        []types.Repository `json:"topRepos"`
	Timeline        []TimelineDay      `json:"timeline"`
}
