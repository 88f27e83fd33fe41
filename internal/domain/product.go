package domain

import "time"

// Product is a catalog row owned by the external database.
type Product struct {
	ID          string
	Name        string
	Price       float64
	Description string
	Stock       int
	VehicleType *string
	ItemType    *string
	ImageURL    string
	CreatedAt   time.Time
}

// ProductChanges carries the fields an update overwrites.
type ProductChanges struct {
	Name        string
	Price       float64
	Description string
	Stock       int
	VehicleType *string
	ItemType    *string
}
