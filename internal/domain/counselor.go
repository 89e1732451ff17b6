package domain

import "golang.org/x/crypto/bcrypt"

// Counselor handles leads. Leads keep a denormalized copy of the
// counselor's primary key and name, not a live reference.
type Counselor struct {
	Record       `bson:",inline"`
	CounselorID  int64  `json:"id" bson:"id,omitempty" gorm:"column:counselor_id;index"`
	Name         string `json:"name" bson:"name"`
	Username     string `json:"username" bson:"username" gorm:"uniqueIndex"`
	Email        string `json:"email" bson:"email"`
	Phone        string `json:"phone" bson:"phone"`
	Designation  string `json:"designation" bson:"designation"`
	ProfileImage string `json:"profileImage" bson:"profileImage"`
	Role         string `json:"role" bson:"role"`
	PasswordHash string `json:"-" bson:"passwordHash,omitempty"`
}

func (Counselor) TableName() string      { return "counselors" }
func (Counselor) CollectionName() string { return "Counselors" }

// SetPassword stores a bcrypt hash of password.
func (c *Counselor) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}
