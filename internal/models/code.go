package models

// CodeResult is one entry of a code search response's "items" array.
// TextMatches is only populated when the text-match media type is requested.
type CodeResult struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	SHA         string      `json:"sha"`
	URL         string      `json:"url"`
	GitURL      string      `json:"git_url"`
	HTMLURL     string      `json:"html_url"`
	Repository  Repository  `json:"repository"`
	Score       float64     `json:"score"`
	TextMatches []TextMatch `json:"text_matches,omitempty"`
}

type TextMatch struct {
	Property string `json:"property"`
	Fragment string `json:"fragment"`
}

type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	Fork     bool   `json:"fork"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type ForkResult struct {
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}
