package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/careerweave/careerweave/internal/config"
)

func newTestAuthHandler() (*AuthHandler, *fakeUserStore) {
	store := newFakeUserStore()
	userService := NewUserService(store, &config.PasswordConfig{BcryptCost: bcrypt.MinCost})
	return NewAuthHandler(userService, newTestJWTService()), store
}

func TestAuthHandler_Register(t *testing.T) {
	h, _ := newTestAuthHandler()

	body := `{"name":"Jane Doe","email":"jane@example.com","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)

	// Issued token must round-trip through validation.
	claims, err := newTestJWTService().ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{not json`},
		{"missing name", `{"email":"jane@example.com","password":"correct-horse"}`},
		{"invalid email", `{"name":"Jane","email":"not-an-email","password":"correct-horse"}`},
		{"short password", `{"name":"Jane","email":"jane@example.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestAuthHandler()

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			h.Register(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h, _ := newTestAuthHandler()

	body := `{"name":"Jane Doe","email":"jane@example.com","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body))
	h.Register(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	h, _ := newTestAuthHandler()

	registerBody := `{"name":"Jane Doe","email":"jane@example.com","password":"correct-horse"}`
	h.Register(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(registerBody)))

	t.Run("success", func(t *testing.T) {
		body := `{"email":"jane@example.com","password":"correct-horse"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"email":"jane@example.com","password":"wrong-horse"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		body := `{"email":"nobody@example.com","password":"correct-horse"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_UpdatePasswordWithUserID(t *testing.T) {
	h, store := newTestAuthHandler()

	registerBody := `{"name":"Jane Doe","email":"jane@example.com","password":"old-password"}`
	h.Register(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(registerBody)))
	userID := store.byEmail["jane@example.com"]

	t.Run("wrong current password", func(t *testing.T) {
		body := `{"current_password":"not-it","new_password":"new-password"}`
		req := httptest.NewRequest(http.MethodPut, "/auth/password", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.UpdatePasswordWithUserID(w, req, userID)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short new password", func(t *testing.T) {
		body := `{"current_password":"old-password","new_password":"short"}`
		req := httptest.NewRequest(http.MethodPut, "/auth/password", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.UpdatePasswordWithUserID(w, req, userID)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		body := `{"current_password":"old-password","new_password":"new-password"}`
		req := httptest.NewRequest(http.MethodPut, "/auth/password", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		h.UpdatePasswordWithUserID(w, req, userID)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestExtractValidationErrors(t *testing.T) {
	v := validator.New()

	err := v.Struct(RegisterRequest{Name: "Jane", Email: "not-an-email", Password: "correct-horse"})
	require.Error(t, err)
	msg := extractValidationErrors(err)
	assert.Contains(t, msg, "Email")
	assert.Contains(t, msg, "email")

	assert.Equal(t, "validation error: invalid request", extractValidationErrors(assert.AnError))
}
