package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/serroba/shortlink/internal/events"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// URLService is the resolution service the handlers drive.
type URLService interface {
	Create(ctx context.Context, longURL string) (shortURL *shortener.ShortURL, inserted bool, err error)
	Resolve(ctx context.Context, code shortener.Code) (string, error)
	Detail(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error)
	Delete(ctx context.Context, code shortener.Code) error
	List(ctx context.Context) ([]shortener.ShortURL, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service        URLService
	baseURL        string
	publishCreated messaging.Publish[events.MappingCreated]
	publishDeleted messaging.Publish[events.MappingDeleted]
	logger         *zap.Logger
	now            func() time.Time
}

// NewURLHandler creates a new URL handler. baseURL is the public prefix used
// to build absolute short links.
func NewURLHandler(
	service URLService,
	baseURL string,
	publishCreated messaging.Publish[events.MappingCreated],
	publishDeleted messaging.Publish[events.MappingDeleted],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:        service,
		baseURL:        strings.TrimRight(baseURL, "/"),
		publishCreated: publishCreated,
		publishDeleted: publishDeleted,
		logger:         logger,
		now:            time.Now,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	shortURL, inserted, err := h.service.Create(ctx, req.Body.LongURL)
	if err != nil {
		return nil, httpError(ctx, h.logger, err, "failed to create short url")
	}

	if inserted {
		h.publishCreatedEvent(ctx, shortURL)
	}

	resp := &CreateShortURLResponse{}
	resp.Location = h.shortURL(shortURL.Code)
	resp.Body.ShortCode = string(shortURL.Code)
	resp.Body.ShortURL = resp.Location
	resp.Body.LongURL = shortURL.LongURL

	return resp, nil
}

func (h *URLHandler) publishCreatedEvent(ctx context.Context, shortURL *shortener.ShortURL) {
	event := &events.MappingCreated{
		Code:      shortURL.Code,
		LongURL:   shortURL.LongURL,
		CreatedAt: h.now(),
		RequestID: requestID(ctx),
	}

	if err := h.publishCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish mapping created event",
			zap.String("code", string(event.Code)),
			zap.Error(err),
		)
	}
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	longURL, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, httpError(ctx, h.logger, err, "failed to resolve short url")
	}

	return &RedirectResponse{
		Status:   http.StatusPermanentRedirect,
		Location: longURL,
	}, nil
}

func (h *URLHandler) GetURLDetail(ctx context.Context, req *CodeRequest) (*URLDetailResponse, error) {
	shortURL, err := h.service.Detail(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, httpError(ctx, h.logger, err, "failed to get short url")
	}

	return &URLDetailResponse{Body: h.detail(shortURL)}, nil
}

func (h *URLHandler) ListURLs(ctx context.Context, _ *struct{}) (*ListURLsResponse, error) {
	urls, err := h.service.List(ctx)
	if err != nil {
		return nil, httpError(ctx, h.logger, err, "failed to list short urls")
	}

	resp := &ListURLsResponse{Body: make([]URLDetail, 0, len(urls))}
	for i := range urls {
		resp.Body = append(resp.Body, h.detail(&urls[i]))
	}

	return resp, nil
}

func (h *URLHandler) DeleteURL(ctx context.Context, req *CodeRequest) (*DeleteURLResponse, error) {
	code := shortener.Code(req.Code)

	if err := h.service.Delete(ctx, code); err != nil {
		return nil, httpError(ctx, h.logger, err, "failed to delete short url")
	}

	event := &events.MappingDeleted{
		Code:      code,
		DeletedAt: h.now(),
		RequestID: requestID(ctx),
	}

	if err := h.publishDeleted(ctx, event); err != nil {
		h.logger.Error("failed to publish mapping deleted event",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	resp := &DeleteURLResponse{}
	resp.Body.Message = "short url deleted successfully"

	return resp, nil
}

func (h *URLHandler) shortURL(code shortener.Code) string {
	return fmt.Sprintf("%s/%s", h.baseURL, code)
}

func (h *URLHandler) detail(u *shortener.ShortURL) URLDetail {
	return URLDetail{
		ShortCode: string(u.Code),
		ShortURL:  h.shortURL(u.Code),
		LongURL:   u.LongURL,
		CreatedAt: u.CreatedAt,
	}
}

func requestID(ctx context.Context) string {
	return middleware.RequestIDFromContext(ctx)
}
