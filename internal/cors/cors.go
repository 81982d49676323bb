// Package cors builds the cross-origin resource sharing policy for the API.
package cors

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"

	"github.com/kaya2m/BookStoreApp-API/internal/config"
)

// anyMethod lists the methods granted when the policy allows any method
var anyMethod = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// Options converts the configured policy into go-chi/cors options.
// A "*" method entry expands to every standard method.
func Options(policy config.CORSConfig) cors.Options {
	methods := policy.AllowedMethods
	if slices.Contains(methods, "*") {
		methods = anyMethod
	}

	return cors.Options{
		AllowedOrigins:   policy.AllowedOrigins,
		AllowedMethods:   methods,
		AllowedHeaders:   policy.AllowedHeaders,
		ExposedHeaders:   policy.ExposedHeaders,
		AllowCredentials: policy.AllowCredentials,
		MaxAge:           policy.MaxAge,
	}
}

// Handler returns the CORS middleware for the given policy
func Handler(policy config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(Options(policy))
}
