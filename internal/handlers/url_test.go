package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink/internal/events"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testBaseURL = "http://localhost:8888"
	testURL     = "https://example.com/a"
)

var errMock = errors.New("mock error")

// recorder collects published events.
type recorder[T any] struct {
	mu     sync.Mutex
	events []*T
	err    error
}

func (r *recorder[T]) publish(_ context.Context, event *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return r.err
}

func (r *recorder[T]) all() []*T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*T(nil), r.events...)
}

// failingService fails every operation with err.
type failingService struct {
	err error
}

func (f failingService) Create(context.Context, string) (*shortener.ShortURL, bool, error) {
	return nil, false, f.err
}

func (f failingService) Resolve(context.Context, shortener.Code) (string, error) {
	return "", f.err
}

func (f failingService) Detail(context.Context, shortener.Code) (*shortener.ShortURL, error) {
	return nil, f.err
}

func (f failingService) Delete(context.Context, shortener.Code) error {
	return f.err
}

func (f failingService) List(context.Context) ([]shortener.ShortURL, error) {
	return nil, f.err
}

func newService() *shortener.Service {
	return shortener.NewService(
		store.NewMemoryStore(),
		store.NewMemoryCache(time.Minute),
		shortener.DefaultConfig(),
		zap.NewNop(),
	)
}

func newTestHandler(svc handlers.URLService) *handlers.URLHandler {
	return handlers.NewURLHandler(
		svc,
		testBaseURL,
		messaging.Discard[events.MappingCreated](),
		messaging.Discard[events.MappingDeleted](),
		zap.NewNop(),
	)
}

func createReq(longURL string) *handlers.CreateShortURLRequest {
	req := &handlers.CreateShortURLRequest{}
	req.Body.LongURL = longURL

	return req
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	var statusErr huma.StatusError

	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, status, statusErr.GetStatus())
}

func TestCreateShortURL(t *testing.T) {
	t.Run("creates short url", func(t *testing.T) {
		handler := newTestHandler(newService())

		resp, err := handler.CreateShortURL(context.Background(), createReq(testURL))

		require.NoError(t, err)
		assert.Equal(t, string(shortener.Generate(testURL)), resp.Body.ShortCode)
		assert.Equal(t, testBaseURL+"/"+resp.Body.ShortCode, resp.Body.ShortURL)
		assert.Equal(t, testURL, resp.Body.LongURL)
		assert.Equal(t, resp.Body.ShortURL, resp.Location)
	})

	t.Run("repeated create returns the same code", func(t *testing.T) {
		handler := newTestHandler(newService())

		first, err := handler.CreateShortURL(context.Background(), createReq(testURL))
		require.NoError(t, err)

		second, err := handler.CreateShortURL(context.Background(), createReq(testURL))
		require.NoError(t, err)

		assert.Equal(t, first.Body.ShortCode, second.Body.ShortCode)
	})

	t.Run("trailing slash on base url is ignored", func(t *testing.T) {
		handler := handlers.NewURLHandler(
			newService(),
			testBaseURL+"/",
			messaging.Discard[events.MappingCreated](),
			messaging.Discard[events.MappingDeleted](),
			zap.NewNop(),
		)

		resp, err := handler.CreateShortURL(context.Background(), createReq(testURL))

		require.NoError(t, err)
		assert.Equal(t, testBaseURL+"/"+resp.Body.ShortCode, resp.Body.ShortURL)
	})

	t.Run("rejects invalid url with 400", func(t *testing.T) {
		handler := newTestHandler(newService())

		resp, err := handler.CreateShortURL(context.Background(), createReq("not a url"))

		assert.Nil(t, resp)
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("returns 500 when the store fails", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		handler := handlers.NewURLHandler(
			failingService{err: shortener.ErrStoreUnavailable},
			testBaseURL,
			messaging.Discard[events.MappingCreated](),
			messaging.Discard[events.MappingDeleted](),
			zap.New(core),
		)

		resp, err := handler.CreateShortURL(context.Background(), createReq(testURL))

		assert.Nil(t, resp)
		requireStatus(t, err, http.StatusInternalServerError)
		assert.Equal(t, 1, logs.FilterMessage("failed to create short url").Len())
	})

	t.Run("publishes a created event", func(t *testing.T) {
		created := &recorder[events.MappingCreated]{}
		handler := handlers.NewURLHandler(
			newService(),
			testBaseURL,
			created.publish,
			messaging.Discard[events.MappingDeleted](),
			zap.NewNop(),
		)

		ctx := middleware.ContextWithRequestID(context.Background(), "req-1")

		resp, err := handler.CreateShortURL(ctx, createReq(testURL))
		require.NoError(t, err)

		published := created.all()
		require.Len(t, published, 1)
		assert.Equal(t, shortener.Code(resp.Body.ShortCode), published[0].Code)
		assert.Equal(t, testURL, published[0].LongURL)
		assert.Equal(t, "req-1", published[0].RequestID)
		assert.False(t, published[0].CreatedAt.IsZero())
	})

	t.Run("repeated create publishes once", func(t *testing.T) {
		created := &recorder[events.MappingCreated]{}
		handler := handlers.NewURLHandler(
			newService(),
			testBaseURL,
			created.publish,
			messaging.Discard[events.MappingDeleted](),
			zap.NewNop(),
		)

		for range 3 {
			_, err := handler.CreateShortURL(context.Background(), createReq(testURL))
			require.NoError(t, err)
		}

		assert.Len(t, created.all(), 1)
	})

	t.Run("succeeds even when publish fails", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		handler := handlers.NewURLHandler(
			newService(),
			testBaseURL,
			(&recorder[events.MappingCreated]{err: errMock}).publish,
			messaging.Discard[events.MappingDeleted](),
			zap.New(core),
		)

		resp, err := handler.CreateShortURL(context.Background(), createReq(testURL))

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.ShortCode)
		assert.Equal(t, 1, logs.FilterMessage("failed to publish mapping created event").Len())
	})

	t.Run("does not publish when create fails", func(t *testing.T) {
		created := &recorder[events.MappingCreated]{}
		handler := handlers.NewURLHandler(
			newService(),
			testBaseURL,
			created.publish,
			messaging.Discard[events.MappingDeleted](),
			zap.NewNop(),
		)

		_, err := handler.CreateShortURL(context.Background(), createReq("ftp:/missing-host"))

		require.Error(t, err)
		assert.Empty(t, created.all())
	})
}

func TestRedirectToURL(t *testing.T) {
	t.Run("redirects permanently to the long url", func(t *testing.T) {
		svc := newService()
		handler := newTestHandler(svc)

		created, _, err := svc.Create(context.Background(), testURL)
		require.NoError(t, err)

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: string(created.Code)})

		require.NoError(t, err)
		assert.Equal(t, http.StatusPermanentRedirect, resp.Status)
		assert.Equal(t, testURL, resp.Location)
	})

	t.Run("returns 404 for unknown code", func(t *testing.T) {
		handler := newTestHandler(newService())
		code := shortener.Generate("https://absent.example")

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: string(code)})

		assert.Nil(t, resp)
		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("returns 400 for malformed code", func(t *testing.T) {
		handler := newTestHandler(newService())

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: "0OIl0OIl"})

		assert.Nil(t, resp)
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		handler := newTestHandler(failingService{err: shortener.ErrStoreUnavailable})

		resp, err := handler.RedirectToURL(context.Background(), &handlers.CodeRequest{Code: "4ER9UuGz"})

		assert.Nil(t, resp)
		requireStatus(t, err, http.StatusInternalServerError)
	})
}

func TestGetURLDetail(t *testing.T) {
	t.Run("returns the stored mapping", func(t *testing.T) {
		svc := newService()
		handler := newTestHandler(svc)

		created, _, err := svc.Create(context.Background(), testURL)
		require.NoError(t, err)

		resp, err := handler.GetURLDetail(context.Background(), &handlers.CodeRequest{Code: string(created.Code)})

		require.NoError(t, err)
		assert.Equal(t, string(created.Code), resp.Body.ShortCode)
		assert.Equal(t, testBaseURL+"/"+string(created.Code), resp.Body.ShortURL)
		assert.Equal(t, testURL, resp.Body.LongURL)
		assert.False(t, resp.Body.CreatedAt.IsZero())
	})

	t.Run("returns 404 for unknown code", func(t *testing.T) {
		handler := newTestHandler(newService())
		code := shortener.Generate("https://absent.example")

		_, err := handler.GetURLDetail(context.Background(), &handlers.CodeRequest{Code: string(code)})

		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("returns 400 for malformed code", func(t *testing.T) {
		handler := newTestHandler(newService())

		_, err := handler.GetURLDetail(context.Background(), &handlers.CodeRequest{Code: "short"})

		requireStatus(t, err, http.StatusBadRequest)
	})
}

func TestListURLs(t *testing.T) {
	t.Run("returns an empty list", func(t *testing.T) {
		handler := newTestHandler(newService())

		resp, err := handler.ListURLs(context.Background(), nil)

		require.NoError(t, err)
		assert.NotNil(t, resp.Body)
		assert.Empty(t, resp.Body)
	})

	t.Run("lists every mapping", func(t *testing.T) {
		svc := newService()
		handler := newTestHandler(svc)

		for _, u := range []string{"https://example.com/1", "https://example.com/2"} {
			_, _, err := svc.Create(context.Background(), u)
			require.NoError(t, err)
		}

		resp, err := handler.ListURLs(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, resp.Body, 2)

		for _, d := range resp.Body {
			assert.Equal(t, testBaseURL+"/"+d.ShortCode, d.ShortURL)
		}
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		handler := newTestHandler(failingService{err: shortener.ErrStoreUnavailable})

		_, err := handler.ListURLs(context.Background(), nil)

		requireStatus(t, err, http.StatusInternalServerError)
	})
}

func TestDeleteURL(t *testing.T) {
	t.Run("deletes and publishes", func(t *testing.T) {
		svc := newService()
		deleted := &recorder[events.MappingDeleted]{}
		handler := handlers.NewURLHandler(
			svc,
			testBaseURL,
			messaging.Discard[events.MappingCreated](),
			deleted.publish,
			zap.NewNop(),
		)

		created, _, err := svc.Create(context.Background(), testURL)
		require.NoError(t, err)

		resp, err := handler.DeleteURL(context.Background(), &handlers.CodeRequest{Code: string(created.Code)})

		require.NoError(t, err)
		assert.Equal(t, "short url deleted successfully", resp.Body.Message)

		published := deleted.all()
		require.Len(t, published, 1)
		assert.Equal(t, created.Code, published[0].Code)

		_, err = svc.Detail(context.Background(), created.Code)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("returns 404 for unknown code without publishing", func(t *testing.T) {
		deleted := &recorder[events.MappingDeleted]{}
		handler := handlers.NewURLHandler(
			newService(),
			testBaseURL,
			messaging.Discard[events.MappingCreated](),
			deleted.publish,
			zap.NewNop(),
		)

		code := shortener.Generate("https://absent.example")
		_, err := handler.DeleteURL(context.Background(), &handlers.CodeRequest{Code: string(code)})

		requireStatus(t, err, http.StatusNotFound)
		assert.Empty(t, deleted.all())
	})

	t.Run("returns 400 for malformed code", func(t *testing.T) {
		handler := newTestHandler(newService())

		_, err := handler.DeleteURL(context.Background(), &handlers.CodeRequest{Code: "bad"})

		requireStatus(t, err, http.StatusBadRequest)
	})
}

func TestNewError(t *testing.T) {
	t.Run("maps 422 to 400", func(t *testing.T) {
		err := handlers.NewError(http.StatusUnprocessableEntity, "validation failed")

		assert.Equal(t, http.StatusBadRequest, err.GetStatus())
	})

	t.Run("keeps other statuses", func(t *testing.T) {
		err := handlers.NewError(http.StatusNotFound, "missing")

		assert.Equal(t, http.StatusNotFound, err.GetStatus())
	})
}
