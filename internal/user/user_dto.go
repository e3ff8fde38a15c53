package user

import "encoding/json"

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

type IdentityWebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type IdentityUserData struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	ImageURL  *string `json:"image_url"`
}

func (d IdentityUserData) ToIdentity() Identity {
	id := Identity{Subject: d.ID, ImageURL: d.ImageURL}
	if len(d.EmailAddresses) > 0 {
		id.Email = d.EmailAddresses[0].EmailAddress
	}
	if d.FirstName != nil {
		id.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		id.LastName = *d.LastName
	}
	return id
}

type SyncMeRequest struct {
	Email     string  `json:"email" binding:"omitempty,email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ImageURL  *string `json:"image_url"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin employee"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Subject   string  `json:"subject"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ImageURL  *string `json:"image_url,omitempty"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
}

type EmployeeSummary struct {
	ID            string  `json:"id"`
	EmployeeCode  string  `json:"employee_code"`
	Department    string  `json:"department"`
	Designation   string  `json:"designation"`
	DateOfJoining string  `json:"date_of_joining"`
	ManagerID     *string `json:"manager_id,omitempty"`
	Status        string  `json:"status"`
}

type MeWithEmployeeResponse struct {
	User     UserResponse     `json:"user"`
	Employee *EmployeeSummary `json:"employee"`
}
