package models

// ProductRecord is the normalized product returned by POST /api/v1/product.
// Every field is always present, defaults included.
type ProductRecord struct {
	Title string `json:"title"`

	// PrimaryImage is the first image of the first media album, or "".
	PrimaryImage string `json:"primary_image"`

	OriginalPrice int `json:"original_price"`

	// DiscountedPrice equals OriginalPrice when the page carries no discount.
	DiscountedPrice int `json:"discounted_price"`

	InStock bool `json:"in_stock"`
}

// ErrorResponse is the body written for any failed request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	TargetDomain string `json:"target_domain"`
	Version      string `json:"version"`
}
