package model

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a customer submission as stored in the order log.
type Order struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Phone     string     `json:"phone" db:"phone"`
	Address   string     `json:"address" db:"address"`
	Comment   string     `json:"comment,omitempty" db:"comment"`
	Cart      []CartItem `json:"cart" db:"cart"`
	CreatedAt time.Time  `json:"time" db:"created_at"`
}

// CartItem represents a line in an order's cart.
// Price and Amount are bounded so that line totals and the order total
// cannot overflow even for a full cart.
type CartItem struct {
	Title  string `json:"title" validate:"required,max=200"`
	Price  int    `json:"price" validate:"gte=0,lte=1000000000"`
	Amount int    `json:"amount" validate:"gt=0,lte=10000"`
}

// LineTotal returns price multiplied by amount.
func (c CartItem) LineTotal() int {
	return c.Price * c.Amount
}

// Total returns the sum of all line totals.
func (o *Order) Total() int {
	total := 0
	for _, item := range o.Cart {
		total += item.LineTotal()
	}
	return total
}

// OrderRequest represents the request payload for submitting an order.
type OrderRequest struct {
	Name    string     `json:"name" validate:"min=2,max=100"`
	Phone   string     `json:"phone" validate:"min=3,max=32"`
	Address string     `json:"address" validate:"min=3,max=300"`
	Comment string     `json:"comment" validate:"max=1000"`
	Cart    []CartItem `json:"cart" validate:"min=1,max=100,dive"`
}

// StatusResponse is the acknowledgement body for a submitted order.
type StatusResponse struct {
	Status string `json:"status"`
}
