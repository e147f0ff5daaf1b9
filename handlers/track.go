package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/sessions"

	"borderpay-payment-api/models"
	"borderpay-payment-api/services/track"
	"borderpay-payment-api/utils"
)

type TrackHandler struct {
	reconciler *track.Reconciler
	store      *sessions.CookieStore
}

func NewTrackHandler(rec *track.Reconciler, store *sessions.CookieStore) *TrackHandler {
	return &TrackHandler{
		reconciler: rec,
		store:      store,
	}
}

// Track resolves a reference against both providers. A reference unknown
// to both is a 200 with found=false, not an error.
func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "reference query parameter is required")
		return
	}

	result, err := h.reconciler.Track(r.Context(), reference)
	if err != nil {
		log.Printf("Tracking lookup failed for %s: %v", reference, err)
		utils.SendErrorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	message := "Tracking result"
	if !result.Found {
		message = "No record found for this reference"
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: message,
		Data:    result,
	})
}

// RecentReferences lists the invoice numbers remembered in the caller's
// session, newest first.
func (h *TrackHandler) RecentReferences(w http.ResponseWriter, r *http.Request) {
	refs := recentReferences(h.store, r)
	if refs == nil {
		refs = []string{}
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Recent references",
		Data: map[string]interface{}{
			"references": refs,
		},
	})
}
