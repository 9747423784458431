package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/content"
)

type ContentHandler struct {
	repo content.RepoInterface
}

func NewContentHandler(repo content.RepoInterface) *ContentHandler {
	return &ContentHandler{repo: repo}
}

func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPublished(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load posts")
		return
	}
	if posts == nil {
		posts = []*content.Post{}
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "post slug is required")
		return
	}

	post, err := h.repo.GetBySlug(r.Context(), slug)
	if errors.Is(err, content.ErrPostNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "post not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not load post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

type NewsletterRequestDTO struct {
	Email string `json:"email"`
}

func (h *ContentHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	email, ok := parseEmail(w, r)
	if !ok {
		return
	}

	if err := h.repo.Subscribe(r.Context(), email); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not subscribe")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

func (h *ContentHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email, ok := parseEmail(w, r)
	if !ok {
		return
	}

	if err := h.repo.Unsubscribe(r.Context(), email); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "could not unsubscribe")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}

func parseEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req NewsletterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return "", false
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return "", false
	}
	return email, true
}
