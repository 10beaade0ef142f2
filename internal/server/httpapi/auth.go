package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/memoirapp/mediakit/internal/common"
	"github.com/memoirapp/mediakit/internal/server/auth"
	"github.com/memoirapp/mediakit/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

const pgUniqueViolation = "23505"

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, CodeValidation, "malformed request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, CodeValidation, "username and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error(r.Context(), "hashing password", "error", err)
		fail(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	_, err = h.users.Create(r.Context(), &models.User{Username: req.Username, PasswordHash: string(hash)})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			fail(w, http.StatusConflict, CodeUserExists, "username is already taken")
			return
		}
		h.log.Error(r.Context(), "creating user", "error", err)
		fail(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	ok(w, nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, CodeValidation, "malformed request body")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fail(w, http.StatusUnauthorized, CodeInvalidCredentials, "invalid username or password")
			return
		}
		h.log.Error(r.Context(), "loading user", "error", err)
		fail(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(w, http.StatusUnauthorized, CodeInvalidCredentials, "invalid username or password")
		return
	}

	token, err := auth.GenerateToken(user.ID, []byte(h.cfg.SecretKey), h.cfg.TokenValidityDuration)
	if err != nil {
		h.log.Error(r.Context(), "signing token", "error", err)
		fail(w, http.StatusInternalServerError, CodeInternal, "internal error")
		return
	}

	ok(w, loginResponse{Token: token})
}
