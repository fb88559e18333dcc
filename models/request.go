package models

// ProductRequest is the payload for POST /api/v1/product.
type ProductRequest struct {
	// URL is the product page to extract. Required.
	// Its host must belong to the target site.
	URL string `json:"url" binding:"required,url"`
}
