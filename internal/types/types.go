package types

import "time"

// Profile is the GitHub user record the analyzer consumes. Optional
// fields (bio, location, blog, company) decode to the empty string when
// absent from the API response.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Blog        string `json:"blog"`
	Company     string `json:"company"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

// Repository is one repository from the user's repository listing.
type Repository struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Fork            bool      `json:"fork"`
	Private         bool      `json:"private"`
	Size            int       `json:"size"`
	Homepage        string    `json:"homepage"`
	Topics          []string  `json:"topics"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	WatchersCount   int       `json:"watchers_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Event is a single entry from the user's public event feed. Only the
// timestamp matters to scoring; the type is carried for display.
type Event struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyzeRequest is the request body for the analyze endpoint.
type AnalyzeRequest struct {
	Input string `json:"input" binding:"required"`
}
