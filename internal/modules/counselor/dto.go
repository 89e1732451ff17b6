package counselor

import (
	"strings"

	"eduportal/internal/domain"
)

type CreateCounselorRequest struct {
	ID           int64  `json:"id" validate:"omitempty,gt=0"`
	Name         string `json:"name" validate:"required"`
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	Designation  string `json:"designation"`
	ProfileImage string `json:"profileImage"`
	Role         string `json:"role"`
	Password     string `json:"password" validate:"omitempty,min=6"`
}

// Patch carries profile edits. Empty fields keep the stored value, so a
// field can be changed but not cleared.
type Patch struct {
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	Designation  string `json:"designation"`
	ProfileImage string `json:"profileImage"`
	Role         string `json:"role"`
	Password     string `json:"password" validate:"omitempty,min=6"`
}

// Profile is what the counselor dashboard loads for the signed-in user.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (r CreateCounselorRequest) toCounselor() *domain.Counselor {
	return &domain.Counselor{
		CounselorID:  r.ID,
		Name:         r.Name,
		Username:     strings.TrimSpace(r.Username),
		Email:        r.Email,
		Phone:        r.Phone,
		Designation:  r.Designation,
		ProfileImage: r.ProfileImage,
		Role:         r.Role,
	}
}
