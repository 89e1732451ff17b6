package domain

import (
	"strconv"
	"time"
)

// LeadStatus is the pipeline stage of a lead.
type LeadStatus = string

const (
	LeadStatusNew      LeadStatus = "New"
	LeadStatusFileOpen LeadStatus = "File Open"
)

// DateLayout is the calendar-date representation stored in lastContact.
const DateLayout = "2006-01-02"

// Required document categories, in the order they are reported when missing.
const (
	DocumentTranscript = "transcript"
	DocumentIELTS      = "ielts"
	DocumentPassport   = "passport"
)

var RequiredDocuments = []string{DocumentTranscript, DocumentIELTS, DocumentPassport}

// MissingDocuments returns the required categories absent from present,
// preserving RequiredDocuments order.
func MissingDocuments(present []string) []string {
	seen := make(map[string]bool, len(present))
	for _, p := range present {
		seen[p] = true
	}
	var missing []string
	for _, required := range RequiredDocuments {
		if !seen[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

// Document is an uploaded file attached to a lead.
type Document struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
	Size int64  `json:"size" bson:"size"`
	Type string `json:"type" bson:"type"`
}

// Lead is a prospective student. LeadID is the numeric id used in links
// and is distinct from the storage primary key.
type Lead struct {
	Record        `bson:",inline"`
	LeadID        int64      `json:"id" bson:"id,omitempty" gorm:"column:lead_id;uniqueIndex"`
	Name          string     `json:"name" bson:"name"`
	Email         string     `json:"email" bson:"email"`
	Phone         string     `json:"phone" bson:"phone" gorm:"index"`
	Country       string     `json:"country" bson:"country"`
	Program       string     `json:"program" bson:"program"`
	Source        string     `json:"source" bson:"source"`
	Message       string     `json:"message" bson:"message"`
	Status        LeadStatus `json:"status" bson:"status"`
	Counselor     string     `json:"counselor" bson:"counselor"`
	CounselorID   string     `json:"counselorId" bson:"counselorId"`
	CounselorName string     `json:"counselorName" bson:"counselorName"`
	LastContact   string     `json:"lastContact" bson:"lastContact"`
	Notes         string     `json:"notes" bson:"notes"`
	Documents     []Document `json:"documents" bson:"documents" gorm:"serializer:json;type:text"`
	Version       int64      `json:"version" bson:"version"`
}

func (Lead) TableName() string      { return "leads" }
func (Lead) CollectionName() string { return "Leads" }

// FindDocument returns the attached document with the given id.
func (l *Lead) FindDocument(id string) (Document, bool) {
	for _, d := range l.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// Touch stamps lastContact with the calendar date of now in UTC.
func (l *Lead) Touch(now time.Time) {
	l.LastContact = now.UTC().Format(DateLayout)
}

// LeadView is the wire form of a lead: "id" is the numeric id, or the
// primary key when no numeric id was ever assigned.
type LeadView struct {
	*Lead
	ID interface{} `json:"id"`
}

func (l *Lead) View() LeadView {
	v := LeadView{Lead: l}
	if l.LeadID != 0 {
		v.ID = l.LeadID
	} else {
		v.ID = l.Record.ID
	}
	if l.Documents == nil {
		l.Documents = []Document{}
	}
	return v
}

// NumericID parses a link identifier. Anything that is not an integer
// cannot name a lead.
func NumericID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
