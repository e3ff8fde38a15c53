package employee

type CreateEmployeeRequest struct {
	UserID           string  `json:"user_id" binding:"required,uuid"`
	EmployeeCode     string  `json:"employee_code" binding:"max=50"`
	Department       string  `json:"department" binding:"required,max=100"`
	Designation      string  `json:"designation" binding:"required,max=100"`
	DateOfJoining    string  `json:"date_of_joining" binding:"required,datetime=2006-01-02"`
	Phone            *string `json:"phone" binding:"omitempty,max=50"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergency_contact" binding:"omitempty,max=255"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,uuid"`
}

// UpdateEmployeeRequest is a partial update; nil fields are left as is.
type UpdateEmployeeRequest struct {
	Department       *string `json:"department" binding:"omitempty,min=1,max=100"`
	Designation      *string `json:"designation" binding:"omitempty,min=1,max=100"`
	Phone            *string `json:"phone" binding:"omitempty,max=50"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergency_contact" binding:"omitempty,max=255"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,uuid"`
	Status           *string `json:"status" binding:"omitempty,oneof=active inactive terminated"`
}

type UserInfo struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ImageURL  *string `json:"image_url,omitempty"`
	Role      string  `json:"role"`
}

type EmployeeResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	EmployeeCode     string    `json:"employee_code"`
	Department       string    `json:"department"`
	Designation      string    `json:"designation"`
	DateOfJoining    string    `json:"date_of_joining"`
	Phone            *string   `json:"phone,omitempty"`
	Address          *string   `json:"address,omitempty"`
	EmergencyContact *string   `json:"emergency_contact,omitempty"`
	ManagerID        *string   `json:"manager_id,omitempty"`
	Status           string    `json:"status"`
	User             *UserInfo `json:"user,omitempty"`
}

type ProfileResponse struct {
	User     *UserInfo        `json:"user"`
	Employee EmployeeResponse `json:"employee"`
	Manager  *UserInfo        `json:"manager"`
}

func mapUser(u *UserRef) *UserInfo {
	if u == nil {
		return nil
	}
	return &UserInfo{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
		Role:      u.Role,
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               e.ID.String(),
		UserID:           e.UserID.String(),
		EmployeeCode:     e.EmployeeCode,
		Department:       e.Department,
		Designation:      e.Designation,
		DateOfJoining:    e.DateOfJoining,
		Phone:            e.Phone,
		Address:          e.Address,
		EmergencyContact: e.EmergencyContact,
		Status:           e.Status,
		User:             mapUser(e.User),
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res
}
