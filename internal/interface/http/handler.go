package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/gearbox/internal/domain/auth"
	"github.com/yanqian/gearbox/internal/domain/profile"
	apperrors "github.com/yanqian/gearbox/pkg/errors"
)

const maxAvatarBytes = 2 << 20

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc    auth.Service
	profileSvc profile.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(authSvc auth.Service, profileSvc profile.Service, logger *slog.Logger) *Handler {
	return &Handler{
		authSvc:    authSvc,
		profileSvc: profileSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// SignIn authenticates an existing account and returns the token pair.
func (h *Handler) SignIn(c *gin.Context) {
	var req auth.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.SignIn(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SignUp registers a new account and signs it in.
func (h *Handler) SignUp(c *gin.Context) {
	var req auth.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.SignUp(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ValidateNewUser checks registration input without creating anything, so the
// registration UI can fail fast.
func (h *Handler) ValidateNewUser(c *gin.Context) {
	var req auth.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	if err := h.authSvc.ValidateNewUser(c.Request.Context(), req); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// Refresh exchanges a live refresh token for a fresh token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req auth.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the signed-in user's profile.
func (h *Handler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "not signed in", nil))
		return
	}

	view, err := h.profileSvc.Me(c.Request.Context(), user.ID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, view)
}

// UploadAvatar stores a new avatar image for the signed-in user.
func (h *Handler) UploadAvatar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "not signed in", nil))
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "avatar file is required", err))
		return
	}
	if file.Size > maxAvatarBytes {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "invalid_request", "avatar file is too large", nil))
		return
	}

	src, err := file.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read avatar file", err))
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read avatar file", err))
		return
	}

	updated, err := h.profileSvc.UpdateAvatar(c.Request.Context(), user.ID, file.Filename, data, file.Header.Get("Content-Type"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	c.JSON(http.StatusOK, updated)
}

// fromDomainError maps domain error codes onto transport statuses.
func fromDomainError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "internal_error"
	switch apperrors.Code(err) {
	case "password_policy_violation":
		status, code = http.StatusBadRequest, "password_policy_violation"
	case "invalid_input":
		status, code = http.StatusBadRequest, "invalid_request"
	case "invalid_credentials":
		status, code = http.StatusUnauthorized, "invalid_credentials"
	case "user_not_found":
		status, code = http.StatusNotFound, "user_not_found"
	case "user_already_exists":
		status, code = http.StatusConflict, "user_already_exists"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
