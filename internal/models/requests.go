package models

// ServiceCreateRequest is the payload for creating a service. List fields
// accept JSON arrays or the comma and Q:/A: text forms authored in the admin
// UI.
type ServiceCreateRequest struct {
	Name         string        `json:"name" validate:"required"`
	Description  string        `json:"description" validate:"required"`
	Category     string        `json:"category" validate:"required"`
	Price        string        `json:"price" validate:"required"`
	Duration     string        `json:"duration" validate:"required"`
	Features     StringList    `json:"features" validate:"required,min=1"`
	Requirements StringList    `json:"requirements" validate:"required,min=1"`
	FAQ          FAQList       `json:"faq"`
	Status       ServiceStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ServiceUpdateRequest is the partial-update payload. Nil fields are left
// unchanged.
type ServiceUpdateRequest struct {
	Name         *string        `json:"name"`
	Description  *string        `json:"description"`
	Category     *string        `json:"category"`
	Price        *string        `json:"price"`
	Duration     *string        `json:"duration"`
	Features     *StringList    `json:"features"`
	Requirements *StringList    `json:"requirements"`
	FAQ          *FAQList       `json:"faq"`
	Status       *ServiceStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// BulkServiceRequest applies one action to a set of services.
type BulkServiceRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Action string   `json:"action" validate:"required,oneof=activate deactivate delete"`
}

// BulkResult reports how many records a bulk action touched.
type BulkResult struct {
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}

// BundleCreateRequest is the payload for creating a bundle.
type BundleCreateRequest struct {
	Name            string        `json:"name" validate:"required"`
	Description     string        `json:"description" validate:"required"`
	LongDescription string        `json:"long_description"`
	Price           string        `json:"price" validate:"required"`
	OriginalPrice   string        `json:"original_price"`
	Savings         string        `json:"savings"`
	Duration        string        `json:"duration"`
	Popular         bool          `json:"popular"`
	Icon            string        `json:"icon"`
	Color           string        `json:"color"`
	Features        StringList    `json:"features" validate:"required,min=1"`
	Includes        StringList    `json:"includes"`
	Process         StringList    `json:"process"`
	Benefits        StringList    `json:"benefits"`
	Status          ServiceStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

// BundleUpdateRequest is the partial-update payload. Nil fields are left
// unchanged.
type BundleUpdateRequest struct {
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	LongDescription *string        `json:"long_description"`
	Price           *string        `json:"price"`
	OriginalPrice   *string        `json:"original_price"`
	Savings         *string        `json:"savings"`
	Duration        *string        `json:"duration"`
	Popular         *bool          `json:"popular"`
	Icon            *string        `json:"icon"`
	Color           *string        `json:"color"`
	Features        *StringList    `json:"features"`
	Includes        *StringList    `json:"includes"`
	Process         *StringList    `json:"process"`
	Benefits        *StringList    `json:"benefits"`
	Status          *ServiceStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}
