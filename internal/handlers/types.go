package handlers

import "time"

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		LongURL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"long_url"`
	}
}

// CreateShortURLResponse is the response for a created or already existing short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		ShortCode string `doc:"The short code"     example:"4ER9UuGz"                           json:"short_code"`
		ShortURL  string `doc:"The full short URL" example:"http://localhost:8888/4ER9UuGz"     json:"short_url"`
		LongURL   string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"long_url"`
	}
}

// CodeRequest addresses a single mapping by its short code.
type CodeRequest struct {
	Code string `doc:"The short code" example:"4ER9UuGz" path:"code"`
}

// RedirectResponse is a permanent redirect to the long URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// URLDetail describes one stored mapping.
type URLDetail struct {
	ShortCode string    `doc:"The short code"     example:"4ER9UuGz"                       json:"short_code"`
	ShortURL  string    `doc:"The full short URL" example:"http://localhost:8888/4ER9UuGz" json:"short_url"`
	LongURL   string    `doc:"The original URL"   example:"https://example.com"            json:"long_url"`
	CreatedAt time.Time `doc:"When the mapping was stored"                                 json:"created_at"`
}

// URLDetailResponse wraps a single mapping.
type URLDetailResponse struct {
	Body URLDetail
}

// ListURLsResponse lists every mapping, newest first.
type ListURLsResponse struct {
	Body []URLDetail
}

// DeleteURLResponse confirms a deletion.
type DeleteURLResponse struct {
	Body struct {
		Message string `example:"short url deleted successfully" json:"message"`
	}
}
