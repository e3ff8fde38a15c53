package employee

import (
	"net/http"
	"sort"
	"strings"

	"go-hrops/internal/middleware"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create employee validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll lists employees, optionally by ?status, filtered by ?q and sorted
// by ?sort_by (code, name, department) and ?sort_dir.
func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		resp []EmployeeResponse
		err  error
	)
	if status := c.Query("status"); status != "" {
		resp, err = h.service.ListByStatus(ctx, status)
	} else {
		resp, err = h.service.ListAll(ctx)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if q := strings.TrimSpace(strings.ToLower(c.Query("q"))); q != "" {
		filtered := make([]EmployeeResponse, 0, len(resp))
		for _, e := range resp {
			if matches(e, q) {
				filtered = append(filtered, e)
			}
		}
		resp = filtered
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "code")))
	desc := strings.EqualFold(c.Query("sort_dir"), "desc")
	sort.SliceStable(resp, func(i, j int) bool {
		a, b := sortKey(resp[i], sortBy), sortKey(resp[j], sortBy)
		if desc {
			return a > b
		}
		return a < b
	})

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, meta)
}

func (h *Handler) GetDepartments(c *gin.Context) {
	resp, err := h.service.GetAllDepartments(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update employee validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "status": StatusTerminated}, nil)
}

func (h *Handler) GetMyProfile(c *gin.Context) {
	resp, err := h.service.GetMyProfile(c.Request.Context(), c.GetString(middleware.KeyEmployeeID))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetTeamMembers(c *gin.Context) {
	resp, err := h.service.GetTeamMembers(c.Request.Context(), c.GetString(middleware.KeyEmployeeID))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func matches(e EmployeeResponse, q string) bool {
	fields := []string{e.EmployeeCode, e.Department, e.Designation}
	if e.User != nil {
		fields = append(fields, e.User.FirstName+" "+e.User.LastName, e.User.Email)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func sortKey(e EmployeeResponse, by string) string {
	switch by {
	case "name":
		if e.User == nil {
			return ""
		}
		return strings.ToLower(e.User.FirstName + " " + e.User.LastName)
	case "department":
		return strings.ToLower(e.Department)
	default:
		return e.EmployeeCode
	}
}
