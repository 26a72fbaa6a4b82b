// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/validation"
)

// ValidateUUIDParam returns a middleware that validates that the named URL parameter
// is present and is a valid UUID. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/groups/{groupId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateGroupID)
//	    r.Get("/assets", handler.Assets)
//	})
func ValidateUUIDParam(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)

			if id == "" {
				response.RespondError(w, http.StatusBadRequest, fmt.Sprintf("%s is required", param), "")
				return
			}

			if err := validation.ValidateUUID(id); err != nil {
				response.RespondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s format", param), err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateGroupID validates the {groupId} URL parameter.
var ValidateGroupID = ValidateUUIDParam("groupId")

// ValidateAssetID validates the {assetId} URL parameter.
var ValidateAssetID = ValidateUUIDParam("assetId")
