package model

import "time"

// Provider is a service provider profile (logistics driver or mechanic).
// Both Verified and Approved must be true before the provider can be
// assigned work.
type Provider struct {
	ProviderID string    `json:"provider_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"` // logistics or mechanic
	Phone      string    `json:"phone,omitempty"`
	Verified   bool      `json:"verified"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Eligible reports whether the provider may be assigned to a subject.
func (p Provider) Eligible() bool {
	return p.Verified && p.Approved
}
