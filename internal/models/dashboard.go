package models

import "time"

// StatusBreakdown counts records by publication status.
type StatusBreakdown struct {
	Total    int `db:"total" json:"total"`
	Active   int `db:"active" json:"active"`
	Inactive int `db:"inactive" json:"inactive"`
}

// PeriodStats counts records created inside the selected reporting window.
type PeriodStats struct {
	Period      string    `json:"period"`
	Since       time.Time `json:"since"`
	NewServices int       `json:"new_services"`
	NewBundles  int       `json:"new_bundles"`
}

// DashboardStats is the admin dashboard summary payload.
type DashboardStats struct {
	Services       StatusBreakdown `json:"services"`
	Bundles        StatusBreakdown `json:"bundles"`
	Categories     []CategoryCount `json:"categories"`
	RecentServices []Service       `json:"recent_services"`
	Window         PeriodStats     `json:"window"`
	GeneratedAt    time.Time       `json:"generated_at"`
}
