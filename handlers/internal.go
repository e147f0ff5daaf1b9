package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"borderpay-payment-api/models"
	"borderpay-payment-api/queue"
	"borderpay-payment-api/services/auth"
	"borderpay-payment-api/utils"
)

type InternalHandler struct {
	jwtService     *auth.JWTService
	queue          *queue.Queue
	internalSecret string
}

func NewInternalHandler(jwtService *auth.JWTService, q *queue.Queue, internalSecret string) *InternalHandler {
	return &InternalHandler{
		jwtService:     jwtService,
		queue:          q,
		internalSecret: internalSecret,
	}
}

// GenerateToken mints a short-lived bearer token for the /internal routes.
// Callers must present the shared internal secret.
func (h *InternalHandler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	if h.internalSecret == "" {
		utils.SendErrorResponse(w, http.StatusForbidden, "Internal API is not configured")
		return
	}

	provided := r.Header.Get("X-Internal-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.internalSecret)) != 1 {
		log.Printf("Rejected token request with bad internal secret from %s", r.RemoteAddr)
		utils.SendErrorResponse(w, http.StatusForbidden, "Invalid internal secret")
		return
	}

	var body struct {
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Subject == "" {
		body.Subject = "internal"
	}

	token, err := h.jwtService.GenerateToken(body.Subject)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Token generated",
		Data: map[string]interface{}{
			"token":      token,
			"expires_in": int(auth.AccessTokenDuration.Seconds()),
		},
	})
}

// RetryFailedJob requeues a job from the failed list.
func (h *InternalHandler) RetryFailedJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	if err := h.queue.RetryJob(r.Context(), jobID); err != nil {
		utils.SendErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	utils.SendSuccessResponse(w, models.APIResponse{
		Status:  "success",
		Message: "Job requeued",
	})
}
