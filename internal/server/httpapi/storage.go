package httpapi

import (
	"net/http"
	"time"
)

// storageTokenResponse matches what the client's credential provider parses.
// Expiration is RFC3339.
type storageTokenResponse struct {
	AccessKeyID     string `json:"accessKeyId"`
	AccessKeySecret string `json:"accessKeySecret"`
	SecurityToken   string `json:"securityToken"`
	Expiration      string `json:"expiration"`
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
}

var validScopes = map[string]bool{"personal": true, "couple": true}

func (h *Handler) storageToken(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if !validScopes[scope] {
		fail(w, http.StatusBadRequest, CodeValidation, "scope must be personal or couple")
		return
	}

	creds, err := h.issuer.Issue(r.Context(), scope)
	if err != nil {
		h.log.Error(r.Context(), "issuing storage credentials", "scope", scope, "error", err)
		fail(w, http.StatusInternalServerError, CodeInternal, "could not issue storage credentials")
		return
	}

	ok(w, storageTokenResponse{
		AccessKeyID:     creds.AccessKeyID,
		AccessKeySecret: creds.AccessKeySecret,
		SecurityToken:   creds.SecurityToken,
		Expiration:      creds.Expiration.UTC().Format(time.RFC3339),
		Region:          h.cfg.S3Region,
		Bucket:          h.cfg.S3Bucket,
	})
}
