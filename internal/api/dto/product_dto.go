package dto

import "time"

// ProductUpdateRequest payload for PUT /update-product/:id. Pointers keep an
// absent field distinguishable from its zero value.
type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
	VehicleType *string  `json:"vehicle_type"`
	ItemType    *string  `json:"item_type"`
}

// ProductResponse mirrors a product row.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	VehicleType *string   `json:"vehicle_type"`
	ItemType    *string   `json:"item_type"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductResult wraps mutation results.
type ProductResult struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    *ProductResponse `json:"data"`
}

// ImageUploadResponse is returned by POST /upload-image.
type ImageUploadResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
	Filename string `json:"filename"`
}

// ImageDeleteResponse is returned by DELETE /delete-image/:filename.
type ImageDeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusResponse is returned by GET /.
type StatusResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	StorageMode string `json:"storage_mode"`
}
