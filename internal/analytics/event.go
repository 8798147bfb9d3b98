package analytics

import "time"

// Topics for the link event stream.
const (
	TopicLinkCreated = "link.created"
	TopicLinkVisited = "link.visited"
)

// LinkCreatedEvent is emitted when a link is created.
type LinkCreatedEvent struct {
	LinkID      int64     `json:"linkId"`
	UserID      int64     `json:"userId"`
	ShortCode   string    `json:"shortCode"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// LinkVisitedEvent is emitted after a successful redirect. It mirrors the
// click row written on the redirect path; the click table stays authoritative
// for counts.
type LinkVisitedEvent struct {
	LinkID      int64     `json:"linkId"`
	ShortCode   string    `json:"shortCode"`
	Destination string    `json:"destination"`
	VisitedAt   time.Time `json:"visitedAt"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
	Referrer    string    `json:"referrer,omitempty"`
}
