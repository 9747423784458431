package httpapi

import (
	"net/http"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/checkout"
)

type CheckoutHandler struct {
	sync *checkout.Synchronizer
}

func NewCheckoutHandler(sync *checkout.Synchronizer) *CheckoutHandler {
	return &CheckoutHandler{sync: sync}
}

type CheckoutURLResponseDTO struct {
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

// GetCheckoutURL resolves the payment URL for the session's cart. An empty
// cart yields an empty URL and a user-facing message, never an error status.
func (h *CheckoutHandler) GetCheckoutURL(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	url := h.sync.CheckoutURL(r.Context(), sessionID)
	if url == "" {
		respondJSON(w, http.StatusOK, CheckoutURLResponseDTO{URL: "", Message: "cart is empty"})
		return
	}
	respondJSON(w, http.StatusOK, CheckoutURLResponseDTO{URL: url})
}
