package domain

import "time"

// Address groups the postal fields shared by stores and order deliveries.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Store is a seller entity owning products and receiving orders.
type Store struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     Address   `json:"address"`
	Email       string    `json:"email,omitempty"`
	ManagerID   string    `json:"managerId"`
	Active      bool      `json:"active"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"ratingCount"`
	CreatedAt   time.Time `json:"createdAt"`
}
