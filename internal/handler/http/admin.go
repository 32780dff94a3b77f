package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ashiksyedmuhammad/React-User-Management/internal/domain"
	"github.com/Ashiksyedmuhammad/React-User-Management/internal/service"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/httputil"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/pagination"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/validator"
)

// AdminHandler handles HTTP requests for the admin user-management endpoints.
type AdminHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(svc *service.UserService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: svc, logger: logger}
}

// AdminEditUserRequest is the JSON request body for an admin editing a user.
type AdminEditUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Image *string `json:"image" validate:"omitempty,max=2048"`
}

// UserListResponse is the paginated response for the admin user list.
type UserListResponse struct {
	Users       []domain.User `json:"users"`
	TotalUsers  int           `json:"totalUsers"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	HasNextPage bool          `json:"hasNextPage"`
	HasPrevPage bool          `json:"hasPrevPage"`
}

// ListUsers handles GET /api/admin/users?searchTerm&page&limit (admin only).
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	search := r.URL.Query().Get("searchTerm")

	result, err := h.service.AdminListUsers(r.Context(), search, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, UserListResponse{
		Users:       result.Items,
		TotalUsers:  result.TotalCount,
		TotalPages:  result.TotalPages,
		CurrentPage: result.Page,
		HasNextPage: result.HasNext,
		HasPrevPage: result.HasPrev,
	})
}

// EditUser handles PUT /api/admin/editUser/{userId} (admin only).
func (h *AdminHandler) EditUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	userID := chi.URLParam(r, "userId")

	var req AdminEditUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if _, err := h.service.AdminUpdateUser(r.Context(), userID, service.AdminUpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	}); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "user updated")
}

// DeleteUser handles DELETE /api/admin/deleteUser/{userId} (admin only).
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.service.AdminDeleteUser(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "user deleted")
}
