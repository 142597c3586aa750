package domain

import "time"

type Car struct {
	ID              string    `json:"_id"`
	OwnerID         string    `json:"owner"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	Image           string    `json:"image"`
	Year            int32     `json:"year"`
	Category        string    `json:"category"`
	SeatingCapacity int32     `json:"seating_capacity"`
	FuelType        string    `json:"fuel_type"`
	Transmission    string    `json:"transmission"`
	PricePerDay     float64   `json:"pricePerDay"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	IsAvailable     bool      `json:"isAvailable"`
	CreatedAt       time.Time `json:"createdAt"`
}
