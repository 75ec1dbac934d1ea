package models

// Source is one external content origin fetched on every cycle.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type NewsItem struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	MobileURL string `json:"mobile_url,omitempty"`
	Rank      int    `json:"rank"`
}

// Key identifies the item for change detection: the URL when present,
// otherwise the title.
func (n NewsItem) Key() string {
	if n.URL != "" {
		return n.URL
	}
	return n.Title
}

// CrawlOutput is the result of one crawler invocation over a list of sources.
type CrawlOutput struct {
	Results   map[string][]NewsItem
	IDToName  map[string]string
	FailedIDs []string
	Metrics   []CrawlMetric
}
