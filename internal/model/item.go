package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingField is returned by Validate when a payload lacks a required field.
var ErrMissingField = errors.New("missing required field")

// Keyed is implemented by every entity a list store can hold.
type Keyed interface {
	Key() string
}

// FoodItem is one product in the fridge.
// The server assigns ID and the timestamps; the client never invents them.
type FoodItem struct {
	ID             string     `json:"_id"`
	Name           string     `json:"name"`
	Category       Category   `json:"category"`
	ExpirationDate time.Time  `json:"expirationDate"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

func (f FoodItem) Key() string { return f.ID }

// Expires is the expiration date without time-of-day, in local time.
func (f FoodItem) Expires() CalendarDate { return DateOf(f.ExpirationDate.Local()) }

// Validate checks the fields the UI relies on.
func (f FoodItem) Validate() error {
	switch {
	case f.ID == "":
		return fmt.Errorf("food item: %w: _id", ErrMissingField)
	case f.Name == "":
		return fmt.Errorf("food item %s: %w: name", f.ID, ErrMissingField)
	case f.ExpirationDate.IsZero():
		return fmt.Errorf("food item %s: %w: expirationDate", f.ID, ErrMissingField)
	}
	return nil
}

// FoodInput is the body of a create or update request.
type FoodInput struct {
	Name           string    `json:"name"`
	Category       Category  `json:"category"`
	ExpirationDate time.Time `json:"expirationDate"`
}
