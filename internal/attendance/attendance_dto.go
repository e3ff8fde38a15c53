package attendance

import "time"

type GeoRequest struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
	Accuracy  float64 `json:"accuracy" binding:"gte=0"`
}

type EmployeeInfo struct {
	EmployeeCode string `json:"employee_code"`
	Department   string `json:"department"`
	Designation  string `json:"designation"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
}

type AttendanceResponse struct {
	ID           string        `json:"id"`
	EmployeeID   string        `json:"employee_id"`
	Date         string        `json:"date"`
	FirstCheckIn string        `json:"first_check_in"`
	LastCheckIn  string        `json:"last_check_in"`
	LastCheckOut *string       `json:"last_check_out,omitempty"`
	TotalHours   float64       `json:"total_hours"`
	Status       string        `json:"status"`
	IsCheckedIn  bool          `json:"is_checked_in"`
	Employee     *EmployeeInfo `json:"employee,omitempty"`
}

type LogResponse struct {
	ID           string  `json:"id"`
	AttendanceID string  `json:"attendance_id"`
	EmployeeID   string  `json:"employee_id"`
	Type         string  `json:"type"`
	Time         string  `json:"time"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Accuracy     float64 `json:"accuracy"`
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID.String(),
		EmployeeID:   a.EmployeeID.String(),
		Date:         a.Date,
		FirstCheckIn: a.FirstCheckIn.UTC().Format(time.RFC3339),
		LastCheckIn:  a.LastCheckIn.UTC().Format(time.RFC3339),
		TotalHours:   a.TotalHours.InexactFloat64(),
		Status:       a.Status,
		IsCheckedIn:  a.IsCheckedIn,
	}
	if a.LastCheckOut != nil {
		v := a.LastCheckOut.UTC().Format(time.RFC3339)
		resp.LastCheckOut = &v
	}
	if a.Employee != nil {
		info := &EmployeeInfo{
			EmployeeCode: a.Employee.EmployeeCode,
			Department:   a.Employee.Department,
			Designation:  a.Employee.Designation,
		}
		if u := a.Employee.User; u != nil {
			info.FirstName = u.FirstName
			info.LastName = u.LastName
			info.Email = u.Email
		}
		resp.Employee = info
	}
	return resp
}

func mapToListResponse(rows []Attendance) []AttendanceResponse {
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}

func mapLogs(rows []AttendanceLog) []LogResponse {
	res := make([]LogResponse, len(rows))
	for i, l := range rows {
		res[i] = LogResponse{
			ID:           l.ID.String(),
			AttendanceID: l.AttendanceID.String(),
			EmployeeID:   l.EmployeeID.String(),
			Type:         l.Type,
			Time:         l.Time.UTC().Format(time.RFC3339),
			Latitude:     l.Latitude,
			Longitude:    l.Longitude,
			Accuracy:     l.Accuracy,
		}
	}
	return res
}
