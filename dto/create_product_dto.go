package dto

// CreateProductForm is bound from the multipart form. Files are read separately
// from the "images" field.
type CreateProductForm struct {
	Name     string `form:"name"`
	Price    string `form:"price"`
	Category string `form:"category"`
	Sizes    string `form:"sizes"`
}

// UpdateProductDTO: all fields except id are optional pointers
type UpdateProductDTO struct {
	ID       string    `json:"id" binding:"required"`
	Name     *string   `json:"name,omitempty"`
	Price    *float64  `json:"price,omitempty"`
	Category *string   `json:"category,omitempty"`
	Sizes    *[]string `json:"sizes,omitempty"`
	// Images is accepted only so that a request carrying it can be rejected.
	Images *[]string `json:"images,omitempty"`
}
