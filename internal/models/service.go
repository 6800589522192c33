package models

import "time"

// ServiceStatus marks whether a catalog record is publicly visible.
type ServiceStatus string

const (
	StatusActive   ServiceStatus = "active"
	StatusInactive ServiceStatus = "inactive"
)

// ServiceCategories is the fixed category enumeration for services.
var ServiceCategories = []string{
	"Company Formation",
	"Tax Services",
	"Legal Services",
	"Compliance",
	"Financial Planning",
	"Documentation",
	"Consultation",
	"Other",
}

// IsValidCategory reports whether the category belongs to the enumeration.
func IsValidCategory(category string) bool {
	for _, c := range ServiceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Service is a purchasable offering shown on the public site and managed by
// admins. Price and duration are free text ("₹15,000", "7-10 days").
type Service struct {
	ID           string        `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Description  string        `db:"description" json:"description"`
	Category     string        `db:"category" json:"category"`
	Price        string        `db:"price" json:"price"`
	Duration     string        `db:"duration" json:"duration"`
	Features     StringList    `db:"features" json:"features"`
	Requirements StringList    `db:"requirements" json:"requirements"`
	FAQ          FAQList       `db:"faq" json:"faq"`
	Status       ServiceStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// ServiceForm is the text projection of a service for the admin edit form:
// lists as comma-joined strings, FAQ as a Q:/A: block.
type ServiceForm struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	Price        string        `json:"price"`
	Duration     string        `json:"duration"`
	Features     string        `json:"features"`
	Requirements string        `json:"requirements"`
	FAQ          string        `json:"faq"`
	Status       ServiceStatus `json:"status"`
}

// Form renders the edit-form projection of the service.
func (s *Service) Form() ServiceForm {
	return ServiceForm{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Category:     s.Category,
		Price:        s.Price,
		Duration:     s.Duration,
		Features:     s.Features.Text(),
		Requirements: s.Requirements.Text(),
		FAQ:          s.FAQ.Text(),
		Status:       s.Status,
	}
}

// ServiceFilter captures listing criteria for services.
type ServiceFilter struct {
	Category  string
	Status    string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// CategoryCount aggregates services per category.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Total    int    `db:"total" json:"total"`
	Active   int    `db:"active" json:"active"`
}
