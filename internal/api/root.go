package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kaya2m/BookStoreApp-API/internal/api/common"
	"github.com/kaya2m/BookStoreApp-API/internal/filters"
)

// rootRoutes registers the API root document on r. The log filter runs
// inline so it sees the resolved route.
func rootRoutes(r chi.Router, logFilter *filters.LogFilter) {
	r.With(filters.ValidateMediaType, logFilter.Middleware).Get("/", getRoot)
}

// getRoot lists the entry points of the API when the client asks for the
// API root media type, and answers 204 otherwise.
func getRoot(w http.ResponseWriter, r *http.Request) {
	mt, ok := filters.MediaTypeFrom(r.Context())
	if !ok || !mt.IsAPIRoot() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	base := baseURL(r)
	doc := RootDocument{
		Links: []Link{
			{Href: base + "/api", Rel: "_self", Method: http.MethodGet},
			{Href: base + "/api/books", Rel: "books", Method: http.MethodGet},
			{Href: base + "/api/books", Rel: "create_book", Method: http.MethodPost},
		},
	}
	common.Respond(w, r, doc, http.StatusOK)
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
