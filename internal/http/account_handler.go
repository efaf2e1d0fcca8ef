package http

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"go.uber.org/zap"
)

type AccountHandler struct {
	provider auth.Provider
	logger   *zap.Logger
}

func NewAccountHandler(provider auth.Provider, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{provider: provider, logger: logger}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AccountResponse struct {
	Username string `json:"username"`
}

// Login accepts either a JSON body or a urlencoded form.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	if !h.provider.Authenticate(w, req.Username, req.Password) {
		h.logger.Info("login rejected", zap.String("username", req.Username))
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "incorrect username or password")
		return
	}

	h.logger.Info("login succeeded", zap.String("username", req.Username))
	respondJSON(w, http.StatusOK, &AccountResponse{Username: req.Username})
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &AccountResponse{Username: getUsername(r.Context())})
}
