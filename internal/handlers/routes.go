package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the URL shortener routes. All of them pass through
// the admission gate.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short URL",
		Description:   "Derives the short code from the URL. Repeating the request returns the same code.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "list-short-urls",
		Method:      http.MethodGet,
		Path:        "/shorten",
		Summary:     "List short URLs",
		Description: "Lists every stored mapping, newest first.",
		Tags:        []string{"Admin"},
	}, urlHandler.ListURLs)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/{code}",
		Summary:       "Redirect to original URL",
		Description:   "Permanently redirects to the URL associated with the short code.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusPermanentRedirect,
	}, urlHandler.RedirectToURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-short-url-detail",
		Method:      http.MethodGet,
		Path:        "/{code}/detail",
		Summary:     "Get short URL detail",
		Tags:        []string{"Admin"},
	}, urlHandler.GetURLDetail)

	huma.Register(api, huma.Operation{
		OperationID: "delete-short-url",
		Method:      http.MethodDelete,
		Path:        "/{code}",
		Summary:     "Delete short URL",
		Description: "Removes the mapping. A cached redirect may keep working until it expires.",
		Tags:        []string{"Admin"},
	}, urlHandler.DeleteURL)
}
