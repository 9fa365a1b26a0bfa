package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/vkdrive/vkdrive/internal/models"
	"github.com/vkdrive/vkdrive/internal/repositories"
	"github.com/vkdrive/vkdrive/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// UsersHandler serves the admin panel endpoints: user listing with filters,
// account management and session revocation. Register it wrapped with
// [RequireAdmin].
type UsersHandler struct {
	users    *repositories.UserRepository
	sessions *repositories.SessionRepository
	logger   *log.Logger
}

// NewUsersHandler creates the admin endpoint group.
func NewUsersHandler(users *repositories.UserRepository, sessions *repositories.SessionRepository, logger *log.Logger) *UsersHandler {
	return &UsersHandler{users: users, sessions: sessions, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *UsersHandler) Routes() []string {
	return []string{
		"GET /api/admin/users",
		"POST /api/admin/users",
		"GET /api/admin/users/{id}",
		"DELETE /api/admin/users/{id}",
		"PUT /api/admin/users/{id}/role",
		"PUT /api/admin/users/{id}/active",
		"PUT /api/admin/users/{id}/password",
		"GET /api/admin/users/{id}/sessions",
		"DELETE /api/admin/sessions/{sessionId}",
	}
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch {
	case r.URL.Path == "/api/admin/users" && r.Method == http.MethodGet:
		h.list(w, r)
	case r.URL.Path == "/api/admin/users" && r.Method == http.MethodPost:
		h.create(w, r)
	case r.PathValue("sessionId") != "":
		h.deleteSession(w, r)
	case id != "":
		h.serveUser(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *UsersHandler) serveUser(w http.ResponseWriter, r *http.Request, id string) {
	switch {
	case r.Method == http.MethodGet && pathEndsWith(r, "/sessions"):
		h.listSessions(w, r, id)
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case r.Method == http.MethodPut && pathEndsWith(r, "/role"):
		h.setRole(w, r, id)
	case r.Method == http.MethodPut && pathEndsWith(r, "/active"):
		h.setActive(w, r, id)
	case r.Method == http.MethodPut && pathEndsWith(r, "/password"):
		h.setPassword(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// list supports ?page=&limit=&search=&role=&isActive= query parameters.
func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := repositories.ListCriteria{
		Search: q.Get("search"),
		Role:   models.Role(q.Get("role")),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		criteria.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		criteria.Limit = limit
	}
	if raw := q.Get("isActive"); raw != "" {
		active := raw == "true"
		criteria.Active = &active
	}

	users, total, err := h.users.List(criteria)
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	if criteria.Page <= 0 {
		criteria.Page = 1
	}
	if criteria.Limit <= 0 {
		criteria.Limit = 10
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"pagination": models.Pagination{
			Page:       criteria.Page,
			Limit:      criteria.Limit,
			Total:      total,
			TotalPages: (total + criteria.Limit - 1) / criteria.Limit,
		},
	})
}

type createUserRequest struct {
	registerRequest
	Role models.Role `json:"role"`
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	if err := models.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := models.NewUser(req.Email, req.FirstName, req.LastName, req.Role)
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

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.users.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if self, ok := UserFromContext(r.Context()); ok && self.ID == id {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.users.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err := h.sessions.DeleteByUser(id); err != nil {
		h.logger.Warn("failed to revoke sessions", "user", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) setRole(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Role models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if self, ok := UserFromContext(r.Context()); ok && self.ID == id && req.Role != models.RoleAdmin {
		writeError(w, http.StatusBadRequest, "cannot remove your own admin role")
		return
	}

	if err := h.users.SetRole(id, req.Role); err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setActive toggles an account. Deactivation revokes every session the
// user holds so access ends immediately, not at token expiry.
func (h *UsersHandler) setActive(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Active bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if self, ok := UserFromContext(r.Context()); ok && self.ID == id && !req.Active {
		writeError(w, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}

	if err := h.users.SetActive(id, req.Active); err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if !req.Active {
		if err := h.sessions.DeleteByUser(id); err != nil {
			h.logger.Warn("failed to revoke sessions", "user", id, "error", err)
		}
		h.logger.Info("account deactivated", "user", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) setPassword(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := h.users.SetPassword(id, string(hash)); err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) listSessions(w http.ResponseWriter, r *http.Request, id string) {
	sessions, err := h.sessions.ListByUser(id)
	if err != nil {
		h.logger.Error("failed to list sessions", "user", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *UsersHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("sessionId")); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathEndsWith(r *http.Request, suffix string) bool {
	return len(r.URL.Path) >= len(suffix) && r.URL.Path[len(r.URL.Path)-len(suffix):] == suffix
}
