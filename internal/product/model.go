package product

import "time"

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price        string    `json:"price"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"imageURL"`
	IsFeatured   bool      `json:"isFeatured"`
	IsBestSeller bool      `json:"isBestSeller"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UpsertRequest is the admin payload for creating or updating a product.
// swagger:model UpsertProductRequest
type UpsertRequest struct {
	Name         string `json:"name"        example:"Red Velvet Cupcake"`
	Description  string `json:"description" example:"Cream cheese frosting"`
	Price        string `json:"price"       example:"50.00"`
	Category     string `json:"category"    example:"Cupcakes"`
	ImageURL     string `json:"imageURL"`
	IsFeatured   bool   `json:"isFeatured"`
	IsBestSeller bool   `json:"isBestSeller"`
}
