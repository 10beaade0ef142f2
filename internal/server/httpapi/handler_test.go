package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/memoirapp/mediakit/internal/common"
	"github.com/memoirapp/mediakit/internal/logging"
	"github.com/memoirapp/mediakit/internal/server/auth"
	"github.com/memoirapp/mediakit/internal/server/config"
	"github.com/memoirapp/mediakit/internal/server/models"
	"github.com/memoirapp/mediakit/internal/server/stscreds"
)

type fakeUsers struct {
	byName map[string]*models.User
}

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, exists := f.byName[u.Username]; exists {
		return nil, &pgconn.PgError{Code: pgUniqueViolation}
	}
	u.ID = fmt.Sprintf("u-%d", len(f.byName)+1)
	u.CreatedAt = time.Now()
	f.byName[u.Username] = u
	return u, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, exists := f.byName[username]
	if !exists {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeMedia struct {
	items []models.Media
}

func (f *fakeMedia) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	m.ID = fmt.Sprintf("m-%d", len(f.items)+1)
	m.CreatedAt = time.Now()
	f.items = append(f.items, *m)
	return m, nil
}

func (f *fakeMedia) List(ctx context.Context, userID string, filter models.MediaFilter, page, pageSize int) ([]models.Media, int, error) {
	var matched []models.Media
	for _, m := range f.items {
		if m.UserID != userID {
			continue
		}
		if filter.OwningID != "" && m.OwningID != filter.OwningID {
			continue
		}
		matched = append(matched, m)
	}
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

func (f *fakeMedia) Delete(ctx context.Context, userID, id string) error {
	kept := f.items[:0]
	for _, m := range f.items {
		if m.UserID == userID && m.ID == id {
			continue
		}
		kept = append(kept, m)
	}
	f.items = kept
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeUsers, *fakeMedia) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	u := &fakeUsers{byName: map[string]*models.User{}}
	m := &fakeMedia{}
	issuer := stscreds.NewStaticIssuer("root", "rootpw", 30*time.Minute)
	return NewHandler(cfg, logging.Default(), u, m, issuer), u, m
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	raw := struct {
		Success bool            `json:"success"`
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	env = envelope{Success: raw.Success, Code: raw.Code, Message: raw.Message, Data: raw.Data}
	return rec, env
}

func TestRegisterAndLogin_RoundTrip(t *testing.T) {
	h, users, _ := newTestHandler(t)
	router := h.Router()

	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "alice", "password": "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	stored := users.byName["alice"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123")))

	rec, env = doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "alice", "password": "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(env.Data.(json.RawMessage), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := h.Router()

	_, _ = doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "alice", "password": "pw"})
	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "alice", "password": "pw"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, CodeUserExists, env.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := h.Router()

	_, _ = doJSON(t, router, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "alice", "password": "right"})
	rec, env := doJSON(t, router, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": "alice", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeInvalidCredentials, env.Code)
}

func TestProtectedEndpoints_RequireToken(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := h.Router()

	rec, env := doJSON(t, router, http.MethodGet, "/api/media", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeUnauthorized, env.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/storage/token?scope=couple", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeUnauthorized, env.Code)
}

func validToken(t *testing.T, h *Handler, userID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, []byte(h.cfg.SecretKey), time.Hour)
	require.NoError(t, err)
	return tok
}

func TestStorageToken_ShapeAndScopeValidation(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := h.Router()
	token := validToken(t, h, "u-1")

	rec, env := doJSON(t, router, http.MethodGet, "/api/storage/token?scope=couple", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var resp storageTokenResponse
	require.NoError(t, json.Unmarshal(env.Data.(json.RawMessage), &resp))
	assert.Equal(t, "root", resp.AccessKeyID)
	assert.Equal(t, h.cfg.S3Bucket, resp.Bucket)
	assert.Equal(t, h.cfg.S3Region, resp.Region)
	_, err := time.Parse(time.RFC3339, resp.Expiration)
	assert.NoError(t, err)

	rec, env = doJSON(t, router, http.MethodGet, "/api/storage/token?scope=everything", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeValidation, env.Code)
}

func TestMedia_CreateListDelete(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := h.Router()
	token := validToken(t, h, "u-1")

	for i := 0; i < 3; i++ {
		rec, env := doJSON(t, router, http.MethodPost, "/api/media", token, createMediaRequest{
			MediaType: "photo",
			MediaURL:  fmt.Sprintf("couple/2026/03/01/%d-abc.jpg", i),
			OwningID:  "album-7",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, env.Success)
	}

	rec, env := doJSON(t, router, http.MethodGet, "/api/media?page=1&page_size=2&album_id=album-7", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page mediaPageResponse
	require.NoError(t, json.Unmarshal(env.Data.(json.RawMessage), &page))
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.TotalPages)

	rec, env = doJSON(t, router, http.MethodDelete, "/api/media/"+page.Data[0].ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestMedia_ListIsScopedToUser(t *testing.T) {
	h, _, m := newTestHandler(t)
	router := h.Router()

	m.items = []models.Media{
		{ID: "m-1", UserID: "u-1", MediaType: "photo", MediaURL: "k1.jpg"},
		{ID: "m-2", UserID: "u-2", MediaType: "photo", MediaURL: "k2.jpg"},
	}

	_, env := doJSON(t, router, http.MethodGet, "/api/media", validToken(t, h, "u-1"), nil)
	var page mediaPageResponse
	require.NoError(t, json.Unmarshal(env.Data.(json.RawMessage), &page))
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "m-1", page.Data[0].ID)
}

func TestCreateMedia_Validation(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := h.Router()
	token := validToken(t, h, "u-1")

	rec, env := doJSON(t, router, http.MethodPost, "/api/media", token,
		createMediaRequest{MediaType: "photo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeValidation, env.Code)
}
