package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vkdrive/vkdrive/internal/models"
	"github.com/vkdrive/vkdrive/internal/repositories"
	"github.com/vkdrive/vkdrive/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used when the user database was first
// populated; changing it only affects new hashes.
const bcryptCost = 12

// AuthHandler serves registration, login and the per-user provider token
// endpoints. Implements the [Handler] interface.
type AuthHandler struct {
	users    *repositories.UserRepository
	sessions *repositories.SessionRepository
	cipher   *shared.TokenCipher
	secret   string
	ttl      time.Duration
	logger   *log.Logger
}

// NewAuthHandler creates the auth endpoint group.
func NewAuthHandler(users *repositories.UserRepository, sessions *repositories.SessionRepository, cipher *shared.TokenCipher, secret string, ttl time.Duration, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		cipher:   cipher,
		secret:   secret,
		ttl:      ttl,
		logger:   logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/logout",
		"GET /api/auth/me",
		"GET /api/auth/tokens",
		"POST /api/auth/tokens",
		"PUT /api/auth/tokens",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/auth/register":
		h.register(w, r)
	case r.URL.Path == "/api/auth/login":
		h.login(w, r)
	case r.URL.Path == "/api/auth/logout":
		h.logout(w, r)
	case r.URL.Path == "/api/auth/me":
		h.me(w, r)
	case r.URL.Path == "/api/auth/tokens" && r.Method == http.MethodGet:
		h.getTokens(w, r)
	case r.URL.Path == "/api/auth/tokens" && (r.Method == http.MethodPost || r.Method == http.MethodPut):
		h.saveTokens(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := models.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := models.NewUser(req.Email, req.FirstName, req.LastName, models.RoleUser)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user.PasswordHash = string(hash)

	if err := h.users.Create(user); err != nil {
		switch {
		case errors.Is(err, shared.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "email is already registered")
		case errors.Is(err, shared.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to create user", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	token, err := h.issueSession(user)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.logger.Info("user registered", "email", user.Email, "sequence", user.Sequence)
	writeJSON(w, http.StatusCreated, map[string]any{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		// Same response as a wrong password so the endpoint doesn't leak
		// which emails exist.
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if !user.Active {
		writeError(w, http.StatusForbidden, "account is deactivated")
		return
	}

	token, err := h.issueSession(user)
	if err != nil {
		h.logger.Error("failed to issue session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.sessions.DeleteByToken(token); err != nil {
			h.logger.Warn("failed to delete session", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) getTokens(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	vk, err := h.cipher.Decrypt(user.VKToken)
	if err != nil {
		h.logger.Error("failed to decrypt vk token", "user", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to decrypt tokens")
		return
	}
	yandex, err := h.cipher.Decrypt(user.YandexToken)
	if err != nil {
		h.logger.Error("failed to decrypt yandex token", "user", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to decrypt tokens")
		return
	}

	writeJSON(w, http.StatusOK, models.TokenPair{VK: vk, Yandex: yandex})
}

// saveTokens accepts both POST and PUT; the web frontend posts, older CLI
// builds put.
func (h *AuthHandler) saveTokens(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var pair models.TokenPair
	if err := json.NewDecoder(r.Body).Decode(&pair); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vk, err := h.cipher.Encrypt(pair.VK)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encrypt tokens")
		return
	}
	yandex, err := h.cipher.Encrypt(pair.Yandex)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encrypt tokens")
		return
	}

	if err := h.users.SetTokens(user.ID, vk, yandex); err != nil {
		h.logger.Error("failed to store tokens", "user", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store tokens")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// issueSession signs a JWT and records it in the sessions table so the
// token survives verification failures after a secret rotation.
func (h *AuthHandler) issueSession(user *models.User) (string, error) {
	token, err := IssueToken(h.secret, user.ID, h.ttl)
	if err != nil {
		return "", err
	}
	if err := h.sessions.Create(models.NewSession(user.ID, token, h.ttl)); err != nil {
		return "", err
	}
	return token, nil
}
