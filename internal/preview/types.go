// Package preview defines the core types shared across the dispatcher and
// resolution engine.
package preview

// Site constants used when synthesizing preview metadata.
const (
	SiteBaseURL = "https://furtrack.com"
	SiteName    = "furtrack.com"
	TwitterSite = "@furtrack"
)

// Result status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// MetaTag is a single key/value tag. Keys in Metadata are Open Graph
// properties; keys in Twitter are Twitter card names.
type MetaTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Result is the outcome of resolving one URL. When Status is "ok" the
// Metadata sequence is non-empty and contains at least an og:title.
type Result struct {
	URL      string    `json:"url"`
	Metadata []MetaTag `json:"metadata"`
	Twitter  []MetaTag `json:"twitter"`
	Status   string    `json:"status"`
	Message  string    `json:"message,omitempty"`
}

// OK reports whether the result carries usable metadata.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// ErrorResult builds a terminal error result with the given message.
func ErrorResult(message string) Result {
	return Result{Status: StatusError, Message: message}
}

// Job is the unit of work flowing from the dispatcher to a resolution
// engine instance. The ID correlates the completion event back to the
// request that submitted it.
type Job struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Submitted int64  `json:"submitted"`
}
