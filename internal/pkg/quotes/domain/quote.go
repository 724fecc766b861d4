package quotes

import "time"

// Quote is the daily quote shown on the feed sidebar.
type Quote struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	FetchedAt time.Time `json:"fetched_at"`
}
