package domain

import (
	"time"
)

// Credentials are the durable access grant obtained by exchanging a short
// code. They persist across restarts and are never refreshed by this system.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	CompanyID    string    `json:"company_id"`
	CampaignCode string    `json:"campaign_code"`
	IssuedAt     time.Time `json:"issued_at"`
}

// Valid reports whether the credentials carry a usable token.
func (c *Credentials) Valid() bool {
	return c != nil && c.AccessToken != ""
}

// Company is a tenant record managed through the admin API.
type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
