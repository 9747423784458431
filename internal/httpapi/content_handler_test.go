package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termstructure/aircare-style-fresh-sub000/internal/content"
)

type contentRepoMock struct {
	posts        []*content.Post
	listErr      error
	subscribed   []string
	unsubbed     []string
	subscribeErr error
}

func (m *contentRepoMock) ListPublished(context.Context) ([]*content.Post, error) {
	return m.posts, m.listErr
}

func (m *contentRepoMock) GetBySlug(_ context.Context, slug string) (*content.Post, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, content.ErrPostNotFound
}

func (m *contentRepoMock) Subscribe(_ context.Context, email string) error {
	if m.subscribeErr != nil {
		return m.subscribeErr
	}
	m.subscribed = append(m.subscribed, email)
	return nil
}

func (m *contentRepoMock) Unsubscribe(_ context.Context, email string) error {
	m.unsubbed = append(m.unsubbed, email)
	return nil
}

func TestListPosts_EmptyIsJSONArray(t *testing.T) {
	handler := NewContentHandler(&contentRepoMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/posts", nil)
	rec := httptest.NewRecorder()

	handler.ListPosts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetPost_BySlug(t *testing.T) {
	repo := &contentRepoMock{posts: []*content.Post{{Slug: "clean-air-basics", Title: "Clean Air Basics"}}}
	handler := NewContentHandler(repo)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", "clean-air-basics")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/posts/clean-air-basics", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.GetPost(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var post content.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "Clean Air Basics", post.Title)
}

func TestGetPost_NotFound(t *testing.T) {
	handler := NewContentHandler(&contentRepoMock{})

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", "missing")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/blog/posts/missing", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	handler.GetPost(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscribe_NormalizesEmail(t *testing.T) {
	repo := &contentRepoMock{}
	handler := NewContentHandler(repo)

	body, _ := json.Marshal(NewsletterRequestDTO{Email: "  Reader@Example.COM "})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/newsletter/subscribe", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Subscribe(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.subscribed, 1)
	assert.Equal(t, "reader@example.com", repo.subscribed[0])
}

func TestSubscribe_RejectsInvalidEmail(t *testing.T) {
	handler := NewContentHandler(&contentRepoMock{})

	body, _ := json.Marshal(NewsletterRequestDTO{Email: "not-an-email"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/newsletter/subscribe", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Subscribe(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnsubscribe(t *testing.T) {
	repo := &contentRepoMock{}
	handler := NewContentHandler(repo)

	body, _ := json.Marshal(NewsletterRequestDTO{Email: "reader@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/newsletter/unsubscribe", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Unsubscribe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"reader@example.com"}, repo.unsubbed)
}
