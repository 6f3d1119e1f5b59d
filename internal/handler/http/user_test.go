package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkarpenko/recipebox/internal/service"
	"github.com/mkarpenko/recipebox/internal/store"
	"github.com/mkarpenko/recipebox/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(_ context.Context, request models.RegisterRequest) (models.User, error) {
			assert.Equal(t, "john@example.com", request.Email)
			return models.User{ID: 1, Email: "john@example.com", Name: "John"}, nil
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	body := `{"email": "john@example.com", "password": "super-secret", "name": "John"}`
	req := httptest.NewRequest(http.MethodPost, "/user/create/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "john@example.com", payload["email"])
	assert.Equal(t, "John", payload["name"])
	// no credential or identity leakage in the public representation
	assert.NotContains(t, payload, "password")
	assert.NotContains(t, payload, "password_hash")
	assert.NotContains(t, payload, "id")
}

func TestRegister_ValidationErrorsAreFieldKeyed(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(_ context.Context, _ models.RegisterRequest) (models.User, error) {
			validation := service.NewValidationError()
			validation.Add("password", "ensure this field has at least 6 characters")
			return models.User{}, validation
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	body := `{"email": "john@example.com", "password": "123"}`
	req := httptest.NewRequest(http.MethodPost, "/user/create/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload, "password")
}

func TestRegister_InvalidJSON(t *testing.T) {
	router := newTestRouter(&service.Services{})

	req := httptest.NewRequest(http.MethodPost, "/user/create/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToken_Success(t *testing.T) {
	auth := &mockAuthService{
		authenticateFn: func(_ context.Context, request models.CredentialsRequest) (models.User, error) {
			return models.User{ID: 1, Email: request.Email}, nil
		},
		createTokenFn: func(_ context.Context, user models.User) (models.Token, error) {
			return models.Token{SignedString: "signed-token", UserID: user.ID}, nil
		},
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	body := `{"email": "john@example.com", "password": "super-secret"}`
	req := httptest.NewRequest(http.MethodPost, "/user/token/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload models.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "signed-token", payload.Token)
}

func TestToken_BadCredentialsConflateTo400(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"unknown email", store.ErrNoUserWasFound},
		{"wrong password", service.ErrWrongPassword},
		{"disabled account", service.ErrUserIsDisabled},
		{"blank credentials", service.ErrInvalidDataProvided},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuthService{
				authenticateFn: func(_ context.Context, _ models.CredentialsRequest) (models.User, error) {
					return models.User{}, tc.err
				},
			}
			router := newTestRouter(&service.Services{AuthService: auth})

			body := `{"email": "john@example.com", "password": "whatever"}`
			req := httptest.NewRequest(http.MethodPost, "/user/token/", strings.NewReader(body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var payload models.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, detailBadCredentials, payload.Detail)
		})
	}
}

func TestProfile_Success(t *testing.T) {
	auth := authorizedAuthService(42)
	auth.profileFn = func(_ context.Context, userID int64) (models.User, error) {
		assert.Equal(t, int64(42), userID)
		return models.User{ID: 42, Email: "john@example.com", Name: "John"}, nil
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	req := httptest.NewRequest(http.MethodGet, "/user/me/", nil)
	req.Header.Set("Authorization", "Token valid-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "john@example.com", payload["email"])
	assert.Equal(t, "John", payload["name"])
}

func TestUpdateProfile_Success(t *testing.T) {
	auth := authorizedAuthService(42)
	auth.updateProfileFn = func(_ context.Context, userID int64, request models.ProfileUpdateRequest) (models.User, error) {
		assert.Equal(t, int64(42), userID)
		require.NotNil(t, request.Name)
		assert.Equal(t, "Johnny", *request.Name)
		assert.Nil(t, request.Password)
		return models.User{ID: 42, Email: "john@example.com", Name: *request.Name}, nil
	}
	router := newTestRouter(&service.Services{AuthService: auth})

	body := `{"name": "Johnny"}`
	req := httptest.NewRequest(http.MethodPatch, "/user/me/", strings.NewReader(body))
	req.Header.Set("Authorization", "Token valid-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Johnny", payload["name"])
}
