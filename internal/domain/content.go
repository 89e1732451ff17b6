package domain

// Marketing content shown on the public site. Each type maps to one
// collection; collection names match the existing production database.

type HeroSection struct {
	Record          `bson:",inline"`
	Title           string `json:"title" bson:"title"`
	Subtitle        string `json:"subtitle" bson:"subtitle"`
	Description     string `json:"description" bson:"description"`
	PrimaryButton   string `json:"primaryButton" bson:"primaryButton"`
	SecondaryButton string `json:"secondaryButton" bson:"secondaryButton"`
}

func (HeroSection) TableName() string      { return "hero_sections" }
func (HeroSection) CollectionName() string { return "HeroSection" }

type Stats struct {
	Record               `bson:",inline"`
	SuccessfullyDeparted string `json:"successfullyDeparted" bson:"successfullyDeparted"`
	FilesOpened          string `json:"filesOpened" bson:"filesOpened"`
	InterestedStudents   string `json:"interestedStudents" bson:"interestedStudents"`
}

func (Stats) TableName() string      { return "stats" }
func (Stats) CollectionName() string { return "Stats" }

type Service struct {
	Record      `bson:",inline"`
	Title       string `json:"title" bson:"title" validate:"required"`
	Description string `json:"description" bson:"description"`
	Icon        string `json:"icon" bson:"icon"`
	Image       string `json:"image" bson:"image"`
}

func (Service) TableName() string      { return "services" }
func (Service) CollectionName() string { return "Services" }

// Partner is a partner university.
type Partner struct {
	Record      `bson:",inline"`
	Name        string `json:"name" bson:"name" validate:"required"`
	Country     string `json:"country" bson:"country"`
	Logo        string `json:"logo" bson:"logo"`
	Website     string `json:"website" bson:"website"`
	Description string `json:"description" bson:"description"`
}

func (Partner) TableName() string      { return "partners" }
func (Partner) CollectionName() string { return "Pertners" }

type FAQ struct {
	Record   `bson:",inline"`
	Question string `json:"question" bson:"question" validate:"required"`
	Answer   string `json:"answer" bson:"answer" validate:"required"`
	Category string `json:"category" bson:"category"`
}

func (FAQ) TableName() string      { return "faqs" }
func (FAQ) CollectionName() string { return "FAQs" }

type Contact struct {
	Record      `bson:",inline"`
	Address     string `json:"address" bson:"address"`
	Email1      string `json:"email1" bson:"email1"`
	Email2      string `json:"email2" bson:"email2"`
	OfficeHours string `json:"officeHours" bson:"officeHours"`
	Phone1      string `json:"phone1" bson:"phone1"`
	Phone2      string `json:"phone2" bson:"phone2"`
	Whatsapp    string `json:"whatsapp" bson:"whatsapp"`
}

func (Contact) TableName() string      { return "contacts" }
func (Contact) CollectionName() string { return "Contacts" }

type Admin struct {
	Record       `bson:",inline"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" bson:"phone"`
	Role         string `json:"role" bson:"role"`
	ProfileImage string `json:"profileImage" bson:"profileImage"`
}

func (Admin) TableName() string      { return "admins" }
func (Admin) CollectionName() string { return "Admins" }

// Material is a downloadable study resource.
type Material struct {
	Record      `bson:",inline"`
	Title       string `json:"title" bson:"title" validate:"required"`
	Description string `json:"description" bson:"description"`
	Category    string `json:"category" bson:"category"`
	FileURL     string `json:"fileUrl" bson:"fileUrl"`
	Thumbnail   string `json:"thumbnail" bson:"thumbnail"`
	Downloads   int64  `json:"downloads" bson:"downloads"`
}

func (Material) TableName() string      { return "materials" }
func (Material) CollectionName() string { return "Metarials" }

type Blog struct {
	Record      `bson:",inline"`
	Title       string   `json:"title" bson:"title" validate:"required"`
	Content     string   `json:"content" bson:"content"`
	Author      string   `json:"author" bson:"author"`
	Category    string   `json:"category" bson:"category"`
	Image       string   `json:"image" bson:"image"`
	Tags        []string `json:"tags" bson:"tags" gorm:"serializer:json;type:text"`
	PublishDate string   `json:"publishDate" bson:"publishDate"`
	Views       int64    `json:"views" bson:"views"`
}

func (Blog) TableName() string      { return "blogs" }
func (Blog) CollectionName() string { return "Blogs" }

// PublishDateLayout renders dates like "Sat Oct 17 2026".
const PublishDateLayout = "Mon Jan 02 2006"

type Category struct {
	Record      `bson:",inline"`
	Name        string `json:"name" bson:"name" validate:"required"`
	Description string `json:"description" bson:"description"`
}

func (Category) TableName() string      { return "categories" }
func (Category) CollectionName() string { return "Category" }

// AllModels lists every stored type for schema migration.
func AllModels() []interface{} {
	return []interface{}{
		&Lead{},
		&Counselor{},
		&HeroSection{},
		&Stats{},
		&Service{},
		&Partner{},
		&FAQ{},
		&Contact{},
		&Admin{},
		&Material{},
		&Blog{},
		&Category{},
	}
}
