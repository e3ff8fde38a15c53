package holiday

import (
	"strings"
	"time"
)

type CreateHolidayRequest struct {
	Name        string  `json:"name" binding:"required,max=150"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	Description *string `json:"description"`
	Location    string  `json:"location" binding:"max=100"`
}

type UpdateHolidayRequest struct {
	Name        string  `json:"name" binding:"required,max=150"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	Description *string `json:"description"`
	Location    string  `json:"location" binding:"max=100"`
	IsActive    *bool   `json:"is_active" binding:"required"`
}

type HolidayResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Description *string `json:"description,omitempty"`
	Location    string  `json:"location"`
	IsActive    bool    `json:"is_active"`
	CreatedBy   string  `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID.String(),
		Name:        h.Name,
		Date:        h.Date,
		Description: h.Description,
		Location:    h.Location,
		IsActive:    h.IsActive,
		CreatedBy:   h.CreatedBy.String(),
		CreatedAt:   h.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(rows []Holiday) []HolidayResponse {
	res := make([]HolidayResponse, len(rows))
	for i, h := range rows {
		res[i] = mapToResponse(h)
	}
	return res
}

func normalizeLocation(s string) string {
	return strings.TrimSpace(s)
}
