package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Ashiksyedmuhammad/React-User-Management/internal/service"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/httputil"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/middleware"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/validator"
)

// UserHandler handles HTTP requests for self-service profile endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// EditProfileRequest is the JSON request body for updating the caller's profile.
type EditProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// EditProfile handles PUT /api/user/editUser (auth required).
func (h *UserHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req EditProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())

	if _, err := h.service.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		Name: &req.Name,
	}); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "profile updated")
}
