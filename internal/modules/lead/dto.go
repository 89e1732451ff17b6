package lead

import "eduportal/internal/domain"

type CreateLeadRequest struct {
	ID            int64  `json:"id" validate:"omitempty,gt=0"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"required"`
	Country       string `json:"country"`
	Program       string `json:"program"`
	Source        string `json:"source"`
	Message       string `json:"message"`
	Status        string `json:"status"`
	Counselor     string `json:"counselor"`
	CounselorID   string `json:"counselorId"`
	CounselorName string `json:"counselorName"`
	LastContact   string `json:"lastContact" validate:"omitempty,datetime=2006-01-02"`
	Notes         string `json:"notes"`
}

// StatusUpdateRequest is sent by the admin panel; the admin becomes the
// lead's counselor of record.
type StatusUpdateRequest struct {
	Status     string `json:"status" validate:"required"`
	AdminEmail string `json:"adminEmail"`
}

// LeadPatch lists the fields a counselor may change. Nil fields are left
// as stored.
type LeadPatch struct {
	Name          *string `json:"name"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Country       *string `json:"country"`
	Program       *string `json:"program"`
	Source        *string `json:"source"`
	Message       *string `json:"message"`
	Status        *string `json:"status"`
	CounselorID   *string `json:"counselorId"`
	CounselorName *string `json:"counselorName"`
	LastContact   *string `json:"lastContact" validate:"omitempty,datetime=2006-01-02"`
	Notes         *string `json:"notes"`
}

type CounselorUpdateRequest struct {
	UpdatedData *LeadPatch `json:"updatedData" validate:"required"`
}

type VerifyPhoneRequest struct {
	Phone string `json:"phone"`
}

func (r CreateLeadRequest) toLead() *domain.Lead {
	return &domain.Lead{
		LeadID:        r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Country:       r.Country,
		Program:       r.Program,
		Source:        r.Source,
		Message:       r.Message,
		Status:        r.Status,
		Counselor:     r.Counselor,
		CounselorID:   r.CounselorID,
		CounselorName: r.CounselorName,
		LastContact:   r.LastContact,
		Notes:         r.Notes,
		Documents:     []domain.Document{},
	}
}

func (p *LeadPatch) apply(l *domain.Lead) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&l.Name, p.Name)
	set(&l.Email, p.Email)
	set(&l.Phone, p.Phone)
	set(&l.Country, p.Country)
	set(&l.Program, p.Program)
	set(&l.Source, p.Source)
	set(&l.Message, p.Message)
	set(&l.Status, p.Status)
	set(&l.CounselorID, p.CounselorID)
	set(&l.CounselorName, p.CounselorName)
	set(&l.LastContact, p.LastContact)
	set(&l.Notes, p.Notes)
	if p.CounselorName != nil {
		l.Counselor = *p.CounselorName
	}
}
