package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jasanvivian/solepos/internal/model"
	"github.com/jasanvivian/solepos/internal/store"
)

// SettingsHandler handles profile, preferences, user management and the
// inventory audit query.
type SettingsHandler struct {
	DB       *sql.DB
	Location *time.Location
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type preferencesRequest struct {
	Theme         *string `json:"theme"`
	Notifications *bool   `json:"notifications"`
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone_number"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// GetProfile handles GET /api/settings/profile.
func (h *SettingsHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil || user == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/settings/profile.
func (h *SettingsHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := store.UpdateProfile(r.Context(), h.DB, claims.UserID, req.Name, req.Email, req.PhoneNumber); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// GetPreferences handles GET /api/settings/preferences.
func (h *SettingsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil || user == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"theme":         user.Theme,
		"notifications": user.Notifications,
	})
}

// UpdatePreferences handles PUT /api/settings/preferences.
func (h *SettingsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil || user == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	theme := user.Theme
	if req.Theme != nil {
		if *req.Theme != "light" && *req.Theme != "dark" {
			jsonError(w, http.StatusBadRequest, "theme must be light or dark")
			return
		}
		theme = *req.Theme
	}
	notifications := user.Notifications
	if req.Notifications != nil {
		notifications = *req.Notifications
	}

	if err := store.UpdatePreferences(r.Context(), h.DB, claims.UserID, theme, notifications); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Preferences updated",
		"preferences": map[string]any{
			"theme":         theme,
			"notifications": notifications,
		},
	})
}

// ListUsers handles GET /api/settings/users (admin only).
func (h *SettingsHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// CreateUser handles POST /api/settings/users (admin only).
func (h *SettingsHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = model.RoleStaff
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "name, email, phone_number and password are required")
		return
	}
	if !model.ValidRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if reason, ok := checkPasswordStrength(req.Password); !ok {
		jsonError(w, http.StatusBadRequest, reason)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Name, req.Email, req.Phone, string(hash), req.Role)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to create user")
		return
	}

	slog.Info("user created by admin", "email", user.Email, "role", user.Role)
	jsonResponse(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// DeleteUser handles DELETE /api/settings/users/{id} (admin only). Admins
// cannot delete themselves.
func (h *SettingsHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if id == claims.UserID {
		jsonError(w, http.StatusBadRequest, "you cannot delete yourself")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// InventoryAudit handles GET /api/settings/inventory-audit?date=YYYY-MM-DD
// with an optional action filter. The date is a calendar day in the
// configured reporting timezone.
func (h *SettingsHandler) InventoryAudit(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		jsonError(w, http.StatusBadRequest, "missing 'date' parameter")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", dateStr, h.Location)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	action := strings.ToUpper(r.URL.Query().Get("action"))
	switch action {
	case "", model.ActionCreate, model.ActionUpdate, model.ActionDelete, model.ActionSale:
	default:
		jsonError(w, http.StatusBadRequest, "invalid action filter")
		return
	}

	logs, byAction, err := store.AuditsForDay(r.Context(), h.DB, day, action, h.Location)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to query audit log")
		return
	}
	if logs == nil {
		logs = []model.AuditEntry{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"date":      day.Format("2006-01-02"),
		"total":     len(logs),
		"by_action": byAction,
		"logs":      logs,
	})
}
