package leave

import (
	"context"
	"net/http"
	"strconv"

	leaveerrors "go-hrops/internal/leave/errors"
	"go-hrops/internal/middleware"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Apply(c *gin.Context) {
	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), c.GetString(middleware.KeyEmployeeID), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	middleware.RememberResult(c, h.rdb, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	resp, err := h.service.Cancel(c.Request.Context(), c.GetString(middleware.KeyEmployeeID), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.review(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.review(c, h.service.Reject)
}

type reviewFunc func(ctx context.Context, reviewerID, requestID string, req ReviewLeaveRequest) (LeaveResponse, error)

func (h *Handler) review(c *gin.Context, fn reviewFunc) {
	var req ReviewLeaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := fn(c.Request.Context(), c.GetString(middleware.KeyUserID), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.writeServiceError(c, leaveerrors.ErrInvalidYear)
			return
		}
		year = v
	}

	resp, err := h.service.GetMyRequests(c.Request.Context(), c.GetString(middleware.KeyEmployeeID), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPending(c *gin.Context) {
	resp, err := h.service.GetPending(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, meta)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAllRequests(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, meta)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	resp, err := h.service.GetApprovedForCalendar(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetTeamThisWeek(c *gin.Context) {
	resp, err := h.service.GetTeamOnLeaveThisWeek(
		c.Request.Context(),
		c.GetString(middleware.KeyEmployeeID),
		c.GetString(middleware.KeyDepartment),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BusinessDays(c *gin.Context) {
	resp, err := h.service.BusinessDays(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
