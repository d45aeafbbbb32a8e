package domain

// Product is the catalog projection joined onto top-product results
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug,omitempty"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}
