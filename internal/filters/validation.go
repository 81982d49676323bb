package filters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/kaya2m/BookStoreApp-API/internal/api/common"
)

type bodyKey[T any] struct{}

// ValidationErrorResponse is the body written for 422 responses.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields validation.Errors `json:"fields"`
}

// Validate decodes the JSON request body into T and, when T implements
// validation.Validatable, validates it. The decoded value is available to
// the next handler through BodyFrom.
func Validate[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body *T
		if r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				body = nil
			}
		}
		if body == nil {
			common.WriteErrorResponse(w, "object is null", http.StatusBadRequest)
			return
		}

		if v, ok := any(body).(validation.Validatable); ok {
			if err := v.Validate(); err != nil {
				var fieldErrs validation.Errors
				if errors.As(err, &fieldErrs) {
					common.WriteJSONResponse(w, ValidationErrorResponse{
						Error:  "validation failed",
						Fields: fieldErrs,
					}, http.StatusUnprocessableEntity)
					return
				}
				var internalErr validation.InternalError
				if errors.As(err, &internalErr) {
					common.WriteErrorResponse(w, "validation could not be performed", http.StatusInternalServerError)
					return
				}
				common.WriteErrorResponse(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
		}

		ctx := context.WithValue(r.Context(), bodyKey[T]{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BodyFrom returns the body decoded by Validate[T].
func BodyFrom[T any](ctx context.Context) (*T, bool) {
	body, ok := ctx.Value(bodyKey[T]{}).(*T)
	return body, ok
}
