package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawa-mspr/auth-service/internal/httputil"
)

func newTestRouter(store Store) *chi.Mux {
	handler := NewHandler(newTestService(store, nil))

	r := chi.NewRouter()
	r.Get("/users", handler.List)
	r.Get("/users/{id}", handler.GetByID)
	r.Get("/users/email/{email}", handler.GetByEmail)
	r.Put("/users/{id}", handler.Update)
	r.Put("/users/{id}/password", handler.UpdatePassword)
	r.Delete("/users/{id}", handler.Delete)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, httputil.Envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env httputil.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandler_List(t *testing.T) {
	store := newFakeStore()
	store.add("a@example.com", "Ada", "Lovelace", "hash-a")
	router := newTestRouter(store)

	rec, env := doRequest(t, router, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Users retrieved successfully", env.Message)

	views, ok := env.Data.([]any)
	require.True(t, ok)
	require.Len(t, views, 1)

	view := views[0].(map[string]any)
	assert.Equal(t, "a@example.com", view["email"])
	assert.NotContains(t, view, "password")
	assert.NotContains(t, view, "passwordHash")
}

func TestHandler_GetByID(t *testing.T) {
	store := newFakeStore()
	u := store.add("a@example.com", "Ada", "Lovelace", "hash-a")
	router := newTestRouter(store)

	rec, env := doRequest(t, router, http.MethodGet, "/users/"+u.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User retrieved successfully", env.Message)

	view := env.Data.(map[string]any)
	assert.Equal(t, u.ID.String(), view["id"])
	assert.Equal(t, "Ada", view["firstName"])
}

func TestHandler_GetByID_NotFound(t *testing.T) {
	router := newTestRouter(newFakeStore())

	rec, env := doRequest(t, router, http.MethodGet, "/users/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "User not found", env.Message)
	assert.Nil(t, env.Data)
}

func TestHandler_GetByID_InvalidID(t *testing.T) {
	router := newTestRouter(newFakeStore())

	rec, env := doRequest(t, router, http.MethodGet, "/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid user id", env.Message)
}

func TestHandler_GetByEmail(t *testing.T) {
	store := newFakeStore()
	store.add("a@example.com", "Ada", "Lovelace", "hash-a")
	router := newTestRouter(store)

	rec, env := doRequest(t, router, http.MethodGet, "/users/email/a@example.com", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User retrieved successfully", env.Message)

	rec, env = doRequest(t, router, http.MethodGet, "/users/email/ghost@example.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)
}

func TestHandler_Update(t *testing.T) {
	store := newFakeStore()
	u := store.add("a@example.com", "Ada", "Lovelace", "hash-a")
	router := newTestRouter(store)

	rec, env := doRequest(t, router, http.MethodPut, "/users/"+u.ID.String(), UpdateProfileRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated successfully", env.Message)

	view := env.Data.(map[string]any)
	assert.Equal(t, "Grace", view["firstName"])
	assert.Equal(t, "Hopper", view["lastName"])
}

func TestHandler_Update_NotFound(t *testing.T) {
	router := newTestRouter(newFakeStore())

	rec, env := doRequest(t, router, http.MethodPut, "/users/"+uuid.NewString(), UpdateProfileRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)
}

func TestHandler_UpdatePassword(t *testing.T) {
	store := newFakeStore()
	u := store.add("a@example.com", "Ada", "Lovelace", "old-hash")
	router := newTestRouter(store)

	rec, env := doRequest(t, router, http.MethodPut, "/users/"+u.ID.String()+"/password", UpdatePasswordRequest{
		NewPassword: "new-password",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User password updated successfully", env.Message)
	assert.Nil(t, env.Data)
	assert.Equal(t, "hashed:new-password", store.users[u.ID].PasswordHash)
}

func TestHandler_Delete(t *testing.T) {
	store := newFakeStore()
	u := store.add("a@example.com", "Ada", "Lovelace", "hash-a")
	router := newTestRouter(store)

	rec, env := doRequest(t, router, http.MethodDelete, "/users/"+u.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", env.Message)
	assert.Empty(t, store.users)

	rec, env = doRequest(t, router, http.MethodDelete, "/users/"+u.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)
}
