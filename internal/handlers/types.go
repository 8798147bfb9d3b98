package handlers

import (
	"time"

	"github.com/linkboost/linkboost/internal/analytics"
	"github.com/linkboost/linkboost/internal/link"
)

// LinkBody is the API representation of a link. The gate password is never
// exposed, only whether one is set.
type LinkBody struct {
	ID           int64     `doc:"Link id"                                 json:"id"`
	UserID       int64     `doc:"Owning user id"                          json:"userId"`
	OriginalURL  string    `doc:"Destination URL"                         json:"originalUrl"`
	ShortCode    string    `doc:"Unique short code"                       json:"shortCode"`
	ShortURL     string    `doc:"Full public short URL"                   json:"shortUrl"`
	CustomDomain string    `doc:"Override destination, preferred when set" json:"customDomain,omitempty"`
	Title        string    `json:"title,omitempty"`
	Category     string    `json:"category,omitempty"`
	HasPassword  bool      `doc:"Whether the redirect is password-gated"  json:"hasPassword"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicLinkBody is a published link annotated with its owner's username.
type PublicLinkBody struct {
	LinkBody
	Username string `doc:"Owning username" json:"username"`
}

// RegisterRequest is the body for creating an account.
type RegisterRequest struct {
	Body struct {
		Username string `doc:"Unique username" example:"ada" json:"username" maxLength:"30" minLength:"3" pattern:"^[a-zA-Z0-9_-]+$"`
		Password string `doc:"Account password" json:"password" maxLength:"100" minLength:"6"`
	}
}

// LoginRequest is the body for authenticating.
type LoginRequest struct {
	Body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
}

// AuthResponse carries a bearer token for subsequent requests.
type AuthResponse struct {
	Body struct {
		Token    string `doc:"Bearer token" json:"token"`
		UserID   int64  `json:"userId"`
		Username string `json:"username"`
	}
}

// CreateLinkRequest is the body for creating a link.
type CreateLinkRequest struct {
	Body struct {
		OriginalURL  string `doc:"The URL to shorten" example:"https://example.com/very/long/path" format:"uri" json:"originalUrl"`
		CustomDomain string `doc:"Optional override destination" json:"customDomain,omitempty" pattern:"^[a-zA-Z0-9][a-zA-Z0-9-]{1,61}[a-zA-Z0-9]\\.[a-zA-Z]{2,}$" required:"false"`
		Title        string `json:"title,omitempty" maxLength:"100" required:"false"`
		Category     string `json:"category,omitempty" maxLength:"50" required:"false"`
		Password     string `doc:"Optional redirect gate password" json:"password,omitempty" maxLength:"100" minLength:"6" required:"false"`
		IsPublished  *bool  `doc:"Public visibility; defaults to published" json:"isPublished,omitempty" required:"false"`
	}
}

// CreateLinkResponse is returned with status 201.
type CreateLinkResponse struct {
	Body LinkBody
}

// LinkIDRequest addresses one caller-owned link.
type LinkIDRequest struct {
	ID int64 `doc:"Link id" path:"id"`
}

// GetLinkResponse is a single link.
type GetLinkResponse struct {
	Body LinkBody
}

// ListLinksResponse is the caller's links, newest first.
type ListLinksResponse struct {
	Body []LinkBody
}

// ListPublicLinksResponse is every published link across all users.
type ListPublicLinksResponse struct {
	Body []PublicLinkBody
}

// UpdateLinkRequest is a partial update; absent fields are left unchanged.
type UpdateLinkRequest struct {
	ID   int64 `doc:"Link id" path:"id"`
	Body struct {
		OriginalURL  *string `format:"uri" json:"originalUrl,omitempty" required:"false"`
		CustomDomain *string `json:"customDomain,omitempty" pattern:"^[a-zA-Z0-9][a-zA-Z0-9-]{1,61}[a-zA-Z0-9]\\.[a-zA-Z]{2,}$" required:"false"`
		Title        *string `json:"title,omitempty" maxLength:"100" required:"false"`
		Category     *string `json:"category,omitempty" maxLength:"50" required:"false"`
		Password     *string `json:"password,omitempty" maxLength:"100" minLength:"6" required:"false"`
		IsPublished  *bool   `json:"isPublished,omitempty" required:"false"`
	}
}

// UpdateLinkResponse is the link after the update.
type UpdateLinkResponse struct {
	Body LinkBody
}

// DeleteLinkResponse is empty; the operation returns 204.
type DeleteLinkResponse struct{}

// AnalyticsResponse is a link's per-day click counts, chronological.
type AnalyticsResponse struct {
	Body []analytics.DayCount
}

// LeaderboardResponse ranks users by total clicks, descending.
type LeaderboardResponse struct {
	Body []analytics.LeaderboardEntry
}

// RedirectRequest is the public short-code lookup.
type RedirectRequest struct {
	ShortCode string `doc:"The short code" example:"V1StGXR8" path:"shortCode"`
	Password  string `doc:"Gate password for protected links" query:"password" required:"false"`
}

// RedirectResponse issues the HTTP redirect to the resolved destination.
type RedirectResponse struct {
	Status   int
	Location string `doc:"Resolved destination" header:"Location"`
}

func linkBody(l *link.Link, baseURL string) LinkBody {
	return LinkBody{
		ID:           l.ID,
		UserID:       l.UserID,
		OriginalURL:  l.OriginalURL,
		ShortCode:    l.ShortCode,
		ShortURL:     baseURL + "/s/" + l.ShortCode,
		CustomDomain: l.CustomDomain,
		Title:        l.Title,
		Category:     l.Category,
		HasPassword:  l.HasPassword(),
		IsPublished:  l.IsPublished,
		CreatedAt:    l.CreatedAt,
	}
}
