package domain

import "time"

// User is the profile created at onboarding. It is owned by a single
// actor namespace and never deleted; logout only clears the auth token.
type User struct {
	ID           string    `json:"id" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	DOB          string    `json:"dob"`
	Age          int       `json:"age" validate:"gte=0"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone" validate:"required"`
	PhoneCountry string    `json:"phoneCountry"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Default units applied on every preferences save when the caller
// leaves them empty.
const (
	DefaultCurrency     = "AED"
	DefaultDistanceUnit = "km"
)

// Preferences holds one user's dining preferences. One record per actor.
type Preferences struct {
	BudgetRange         string   `json:"budgetRange"`
	DistanceRange       string   `json:"distanceRange"`
	Cuisines            []string `json:"cuisines"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Currency            string   `json:"currency" validate:"required"`
	DistanceUnit        string   `json:"distanceUnit" validate:"required"`
}

// ApplyDefaults fills in currency and distance unit when unset.
func (p *Preferences) ApplyDefaults() {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.DistanceUnit == "" {
		p.DistanceUnit = DefaultDistanceUnit
	}
}

// Favorite is a saved restaurant. Append-only per actor.
type Favorite struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Cuisine  string  `json:"cuisine,omitempty"`
	Budget   string  `json:"budget,omitempty"`
	Distance string  `json:"distance,omitempty"`
	Rating   float64 `json:"rating,omitempty" validate:"min=0,max=5"`
	Image    string  `json:"image,omitempty"`
}
