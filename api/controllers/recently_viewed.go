package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/promayouf/storefront-backend/api/middleware"
	"github.com/promayouf/storefront-backend/api/responses"
	"github.com/promayouf/storefront-backend/api/validators"
	"github.com/promayouf/storefront-backend/internal/recentlyviewed"
	pkgerrors "github.com/promayouf/storefront-backend/pkg/errors"
	"github.com/promayouf/storefront-backend/pkg/logger"
)

type recordViewRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Image     string    `json:"image"`
	Price     float64   `json:"price" validate:"min=0"`
}

// RecentlyViewedList returns the session's viewing history, newest first.
func RecentlyViewedList(svc *recentlyviewed.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		entries, err := svc.List(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// RecentlyViewedRecord appends a product view to the session's history.
func RecentlyViewedRecord(svc *recentlyviewed.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		var payload recordViewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Record(r.Context(), sessionID, recentlyviewed.Entry{
			ProductID: payload.ProductID,
			Name:      payload.Name,
			Image:     payload.Image,
			Price:     payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// RecentlyViewedClear drops the session's viewing history.
func RecentlyViewedClear(svc *recentlyviewed.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}

		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
