package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkarpenko/recipebox/internal/service"
	"github.com/mkarpenko/recipebox/internal/store"
	"github.com/mkarpenko/recipebox/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTags_Success(t *testing.T) {
	auth := authorizedAuthService(42)
	tags := &mockTagService{
		listFn: func(_ context.Context, ownerID int64) ([]models.Tag, error) {
			assert.Equal(t, int64(42), ownerID)
			return []models.Tag{
				{ID: 2, UserID: 42, Name: "Vegan"},
				{ID: 1, UserID: 42, Name: "Dessert"},
			}, nil
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth, TagService: tags})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/recipe/tags/", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload, 2)
	assert.Equal(t, "Vegan", payload[0]["name"])
	assert.Equal(t, "Dessert", payload[1]["name"])
	assert.NotContains(t, payload[0], "user_id")
}

func TestListTags_EmptyListIsJSONArray(t *testing.T) {
	router := newTestRouter(&service.Services{AuthService: authorizedAuthService(42)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/recipe/tags/", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRenameTag_Success(t *testing.T) {
	auth := authorizedAuthService(42)
	tags := &mockTagService{
		renameFn: func(_ context.Context, ownerID, tagID int64, request models.TagRenameRequest) (models.Tag, error) {
			assert.Equal(t, int64(42), ownerID)
			assert.Equal(t, int64(5), tagID)
			assert.Equal(t, "Dinner", request.Name)
			return models.Tag{ID: 5, UserID: 42, Name: "Dinner"}, nil
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth, TagService: tags})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPatch, "/recipe/tags/5/", `{"name": "Dinner"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Dinner", payload["name"])
}

func TestRenameTag_NotOwnedGets404(t *testing.T) {
	auth := authorizedAuthService(42)
	tags := &mockTagService{
		renameFn: func(_ context.Context, _, _ int64, _ models.TagRenameRequest) (models.Tag, error) {
			return models.Tag{}, store.ErrTagNotFound
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth, TagService: tags})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPatch, "/recipe/tags/5/", `{"name": "Dinner"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTag_Success(t *testing.T) {
	auth := authorizedAuthService(42)
	tags := &mockTagService{
		deleteFn: func(_ context.Context, ownerID, tagID int64) error {
			assert.Equal(t, int64(42), ownerID)
			assert.Equal(t, int64(5), tagID)
			return nil
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth, TagService: tags})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/recipe/tags/5/", ""))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteTag_NotFoundGets404(t *testing.T) {
	auth := authorizedAuthService(42)
	tags := &mockTagService{
		deleteFn: func(_ context.Context, _, _ int64) error {
			return store.ErrTagNotFound
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth, TagService: tags})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/recipe/tags/99/", ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTagRouteDoesNotExist(t *testing.T) {
	router := newTestRouter(&service.Services{AuthService: authorizedAuthService(42)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/recipe/tags/", `{"name": "Dinner"}`))

	// tags are created only through recipe writes
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
