package models

import "time"

// Bundle is a discounted grouping of services with extra marketing fields.
// Icon holds the frontend icon key (rocket, building etc).
type Bundle struct {
	ID              string        `db:"id" json:"id"`
	Name            string        `db:"name" json:"name"`
	Description     string        `db:"description" json:"description"`
	LongDescription string        `db:"long_description" json:"long_description,omitempty"`
	Price           string        `db:"price" json:"price"`
	OriginalPrice   string        `db:"original_price" json:"original_price,omitempty"`
	Savings         string        `db:"savings" json:"savings,omitempty"`
	Duration        string        `db:"duration" json:"duration,omitempty"`
	Popular         bool          `db:"popular" json:"popular"`
	Icon            string        `db:"icon" json:"icon,omitempty"`
	Color           string        `db:"color" json:"color,omitempty"`
	Features        StringList    `db:"features" json:"features"`
	Includes        StringList    `db:"includes" json:"includes"`
	Process         StringList    `db:"process" json:"process"`
	Benefits        StringList    `db:"benefits" json:"benefits"`
	Status          ServiceStatus `db:"status" json:"status"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// BundleForm is the text projection of a bundle for the admin edit form.
type BundleForm struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	LongDescription string        `json:"long_description,omitempty"`
	Price           string        `json:"price"`
	OriginalPrice   string        `json:"original_price,omitempty"`
	Savings         string        `json:"savings,omitempty"`
	Duration        string        `json:"duration,omitempty"`
	Popular         bool          `json:"popular"`
	Icon            string        `json:"icon,omitempty"`
	Color           string        `json:"color,omitempty"`
	Features        string        `json:"features"`
	Includes        string        `json:"includes"`
	Process         string        `json:"process"`
	Benefits        string        `json:"benefits"`
	Status          ServiceStatus `json:"status"`
}

// Form renders the edit-form projection of the bundle.
func (b *Bundle) Form() BundleForm {
	return BundleForm{
		ID:              b.ID,
		Name:            b.Name,
		Description:     b.Description,
		LongDescription: b.LongDescription,
		Price:           b.Price,
		OriginalPrice:   b.OriginalPrice,
		Savings:         b.Savings,
		Duration:        b.Duration,
		Popular:         b.Popular,
		Icon:            b.Icon,
		Color:           b.Color,
		Features:        b.Features.Text(),
		Includes:        b.Includes.Text(),
		Process:         b.Process.Text(),
		Benefits:        b.Benefits.Text(),
		Status:          b.Status,
	}
}

// BundleFilter captures listing criteria for bundles.
type BundleFilter struct {
	Status    string
	Search    string
	Popular   *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
