package user

import (
	"encoding/json"
	"io"
	"net/http"

	"go-hrops/internal/middleware"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/response"
	usererrors "go-hrops/internal/user/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service       Service
	webhookSecret string
}

func NewHandler(service Service, webhookSecret string) *Handler {
	return &Handler{service: service, webhookSecret: webhookSecret}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) IdentityWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeServiceError(c, apperror.ErrInvalidInput)
		return
	}

	if !VerifySignature(h.webhookSecret, body, c.GetHeader(SignatureHeader)) {
		writeServiceError(c, usererrors.ErrInvalidSignature)
		return
	}

	var event IdentityWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeServiceError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.HandleIdentityEvent(c.Request.Context(), event); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true}, nil)
}

func (h *Handler) GetMe(c *gin.Context) {
	resp, err := h.service.GetMe(c.Request.Context(), c.GetString(middleware.KeySubject))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMeWithEmployee(c *gin.Context) {
	resp, err := h.service.GetMeWithEmployee(c.Request.Context(), c.GetString(middleware.KeySubject))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SyncMe(c *gin.Context) {
	var req SyncMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.EnsureMe(c.Request.Context(), c.GetString(middleware.KeySubject), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SetRole(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListAll(c *gin.Context) {
	resp, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, meta)
}
