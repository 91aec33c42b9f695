package rentals

import (
	"fmt"
	"strings"
)

// Rental is a listing managed by the backend.
type Rental struct {
	ID            string   `json:"id"`
	Address       string   `json:"address"`
	Price         float64  `json:"price"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     float64  `json:"bathrooms"`
	SquareFeet    int      `json:"square_feet,omitempty"`
	PropertyType  string   `json:"property_type,omitempty"`
	AvailableDate string   `json:"available_date,omitempty"`
	Description   string   `json:"description,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	Status        string   `json:"status,omitempty"`
}

type CreateCommand struct {
	Address       string   `json:"address"`
	Price         float64  `json:"price"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     float64  `json:"bathrooms"`
	SquareFeet    int      `json:"square_feet,omitempty"`
	PropertyType  string   `json:"property_type,omitempty"`
	AvailableDate string   `json:"available_date,omitempty"`
	Description   string   `json:"description,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
}

func (c *CreateCommand) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("%w: address required", ErrInvalid)
	}
	if c.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	if c.Bedrooms < 0 || c.Bathrooms < 0 {
		return fmt.Errorf("%w: room counts must not be negative", ErrInvalid)
	}
	return nil
}

// UpdateCommand is a partial update; nil fields are left unchanged.
type UpdateCommand struct {
	Address       *string   `json:"address,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	Bedrooms      *int      `json:"bedrooms,omitempty"`
	Bathrooms     *float64  `json:"bathrooms,omitempty"`
	SquareFeet    *int      `json:"square_feet,omitempty"`
	PropertyType  *string   `json:"property_type,omitempty"`
	AvailableDate *string   `json:"available_date,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Amenities     *[]string `json:"amenities,omitempty"`
	Status        *string   `json:"status,omitempty"`
}

func (c *UpdateCommand) Validate() error {
	if c.Address != nil && strings.TrimSpace(*c.Address) == "" {
		return fmt.Errorf("%w: address must not be empty", ErrInvalid)
	}
	if c.Price != nil && *c.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	return nil
}

// Filters narrows a listing by substring match on address and a price ceiling.
type Filters struct {
	Search   string
	MaxPrice *float64
}

func (f Filters) match(r Rental) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Address), strings.ToLower(f.Search)) {
		return false
	}
	if f.MaxPrice != nil && r.Price > *f.MaxPrice {
		return false
	}
	return true
}
