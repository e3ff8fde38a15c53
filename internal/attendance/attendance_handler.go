package attendance

import (
	"context"
	"fmt"
	"net/http"

	"go-hrops/internal/middleware"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

type sessionFunc func(ctx context.Context, employeeID string, req GeoRequest) (AttendanceResponse, error)

func (h *Handler) CheckIn(c *gin.Context) {
	h.session(c, h.service.CheckIn)
}

func (h *Handler) CheckOut(c *gin.Context) {
	h.session(c, h.service.CheckOut)
}

func (h *Handler) session(c *gin.Context, fn sessionFunc) {
	var req GeoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := fn(c.Request.Context(), c.GetString(middleware.KeyEmployeeID), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	middleware.RememberResult(c, h.rdb, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetToday(c *gin.Context) {
	resp, err := h.service.GetTodayStatus(c.Request.Context(), c.GetString(middleware.KeyEmployeeID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMyHistory(c *gin.Context) {
	resp, err := h.service.GetMyHistory(
		c.Request.Context(),
		c.GetString(middleware.KeyEmployeeID),
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMyLogs(c *gin.Context) {
	resp, err := h.service.GetLogs(c.Request.Context(), c.GetString(middleware.KeyEmployeeID), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetLogsByAttendanceID(c *gin.Context) {
	resp, err := h.service.GetLogsByAttendanceID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAllByDate(c *gin.Context) {
	resp, err := h.service.GetAllByDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, meta)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	resp, err := h.service.GetByEmployee(
		c.Request.Context(),
		c.Param("employee_id"),
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	start, end := c.Query("start_date"), c.Query("end_date")
	data, err := h.service.ExportByDateRange(c.Request.Context(), start, end, c.Query("employee_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", start, end)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
