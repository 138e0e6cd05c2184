package model

// Product represents an item in the storefront catalog.
type Product struct {
	ID                 int    `json:"id" db:"id"`
	Title              string `json:"title" db:"title"`
	Price              int    `json:"price" db:"price"`
	Image              string `json:"image" db:"image"`
	DiscountPercentage int    `json:"discountPercentage" db:"discount_percentage"`
}

// ProductInput is the wire shape of a catalog entry on update.
// Pointers distinguish a missing field from a zero value.
type ProductInput struct {
	ID                 *int    `json:"id" validate:"required"`
	Title              *string `json:"title" validate:"required"`
	Price              *int    `json:"price" validate:"required"`
	Image              *string `json:"image" validate:"required"`
	DiscountPercentage *int    `json:"discountPercentage" validate:"required"`
}

// Product converts a validated input into a Product.
func (in ProductInput) Product() Product {
	var p Product
	if in.ID != nil {
		p.ID = *in.ID
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.DiscountPercentage != nil {
		p.DiscountPercentage = *in.DiscountPercentage
	}
	return p
}

// MessageResponse is the acknowledgement body for catalog updates.
type MessageResponse struct {
	Message string `json:"message"`
}
