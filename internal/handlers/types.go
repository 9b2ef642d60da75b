package handlers

import (
	"time"

	"github.com/serroba/shortlink/internal/link"
)

// LinkBody is the wire representation of a link.
type LinkBody struct {
	Code        string     `doc:"The lookup key"      example:"x7Gd2a"                        json:"code"`
	ShortURL    string     `doc:"The full short URL"  example:"http://localhost:8888/x7Gd2a"  json:"shortUrl"`
	OriginalURL string     `doc:"The destination URL" example:"https://example.com/long/path" json:"originalUrl"`
	CustomAlias string     `doc:"Custom alias if set" json:"customAlias,omitempty"`
	CreatedAt   time.Time  `doc:"Creation time"       json:"createdAt"`
	ExpiresAt   *time.Time `doc:"Expiry time"         json:"expiresAt,omitempty"`
}

// LinkStatsBody extends LinkBody with access counters.
type LinkStatsBody struct {
	LinkBody
	AccessCount  int64      `doc:"Successful resolutions" json:"accessCount"`
	LastAccessed *time.Time `doc:"Most recent resolution" json:"lastAccessed,omitempty"`
}

// ShortenRequest is the request for creating a short link.
type ShortenRequest struct {
	Body struct {
		URL         string     `doc:"The URL to shorten"       example:"https://example.com/very/long/path" json:"url"`
		CustomAlias string     `doc:"Optional custom alias"    example:"promo"                              json:"customAlias,omitempty"`
		ExpiresAt   *time.Time `doc:"Optional expiry; defaults to 30 days from creation" json:"expiresAt,omitempty"`
	}
}

// ShortenResponse is the response for a successfully created link.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkBody
}

// RedirectRequest is the request for resolving a short link.
type RedirectRequest struct {
	Code string `doc:"The short code or alias" example:"x7Gd2a" path:"code"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// StatsRequest is the request for link statistics.
type StatsRequest struct {
	Code string `doc:"The short code or alias" path:"code"`
}

// StatsResponse carries the link record including counters.
type StatsResponse struct {
	Body LinkStatsBody
}

// UpdateLinkRequest is the request for changing a link's destination.
type UpdateLinkRequest struct {
	Code string `doc:"The short code or alias" path:"code"`
	Body struct {
		URL string `doc:"The new destination URL" json:"url"`
	}
}

// UpdateLinkResponse carries the updated link.
type UpdateLinkResponse struct {
	Body LinkBody
}

// DeleteLinkRequest is the request for deleting a link.
type DeleteLinkRequest struct {
	Code string `doc:"The short code or alias" path:"code"`
}

// DeleteLinkResponse confirms deletion.
type DeleteLinkResponse struct {
	Body struct {
		Message string `doc:"Confirmation message" json:"message"`
	}
}

// SearchRequest looks up links by exact destination URL.
type SearchRequest struct {
	OriginalURL string `doc:"The destination URL to search for" query:"original_url" required:"true"`
}

// SearchResponse lists matching links; no matches yields an empty list.
type SearchResponse struct {
	Body struct {
		Links []LinkBody `json:"links"`
	}
}

// ExpiredResponse lists links past their expiry.
type ExpiredResponse struct {
	Body struct {
		Links []LinkBody `json:"links"`
	}
}

// SweepResponse reports how many expired links were removed.
type SweepResponse struct {
	Body struct {
		Removed int `doc:"Number of expired links removed" json:"removed"`
	}
}

// RegisterRequest creates a user account.
type RegisterRequest struct {
	Body struct {
		Email    string `doc:"Account email"    format:"email" json:"email"`
		Password string `doc:"Account password" json:"password" minLength:"8"`
	}
}

// RegisterResponse returns the created account.
type RegisterResponse struct {
	Body struct {
		ID    string `doc:"User id"       json:"id"`
		Email string `doc:"Account email" json:"email"`
	}
}

// LoginRequest exchanges credentials for a bearer token.
type LoginRequest struct {
	Body struct {
		Email    string `doc:"Account email"    format:"email" json:"email"`
		Password string `doc:"Account password" json:"password"`
	}
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Body struct {
		AccessToken string `doc:"Bearer token"               json:"accessToken"`
		TokenType   string `doc:"Token type, always bearer"  json:"tokenType"`
	}
}

func linkBody(l *link.Link, baseURL string) LinkBody {
	b := LinkBody{
		Code:        l.ShortCode,
		ShortURL:    baseURL + "/" + l.ShortCode,
		OriginalURL: l.OriginalURL,
		CreatedAt:   l.CreatedAt,
		ExpiresAt:   l.ExpiresAt,
	}
	if l.CustomAlias != nil {
		b.CustomAlias = *l.CustomAlias
	}

	return b
}

func linkBodies(links []*link.Link, baseURL string) []LinkBody {
	out := make([]LinkBody, 0, len(links))
	for _, l := range links {
		out = append(out, linkBody(l, baseURL))
	}

	return out
}
