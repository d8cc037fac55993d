package order

import (
	"time"

	"github.com/flourever/storefront/internal/pricing"
)

// Status is the order lifecycle state. The happy path is
// Pending -> Baking -> Out for Delivery -> Delivered; Cancelled and
// Redelivering are side branches.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusBaking         Status = "Baking"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
	StatusRedelivering   Status = "Redelivering"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusBaking, StatusOutForDelivery,
		StatusDelivered, StatusCancelled, StatusRedelivering:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:        {StatusBaking, StatusCancelled},
	StatusBaking:         {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {StatusRedelivering},
	StatusRedelivering:   {StatusOutForDelivery, StatusCancelled},
}

// CanTransition reports whether an admin may move an order from one status to
// another. Cancelled is terminal; Delivered only reopens into Redelivering.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customerId"`
	TotalPrice string `json:"totalPrice"` // NUMERIC -> string
	Status     Status `json:"orderStatus"`

	DeliveryAddress      string   `json:"deliveryAddress"`
	ContactNumber        string   `json:"contactNumber"`
	DeliveryLat          *float64 `json:"deliveryLat,omitempty"`
	DeliveryLng          *float64 `json:"deliveryLng,omitempty"`
	DeliveryInstructions *string  `json:"deliveryInstructions,omitempty"`

	OrderDate time.Time `json:"orderDate"`

	Rating            *int    `json:"rating,omitempty"`
	IssueReported     *string `json:"issueReported,omitempty"`
	Feedback          *string `json:"feedback,omitempty"`
	RequestRedelivery bool    `json:"requestRedelivery"`
}

// Item is one immutable order line. PriceAtPurchase is the authoritative unit
// price frozen at checkout; it is never recomputed.
type Item struct {
	ID              int64        `json:"id"`
	OrderID         int64        `json:"orderId"`
	ProductID       int64        `json:"productId"`
	Quantity        int          `json:"quantity"`
	Size            pricing.Size `json:"size"`
	PriceAtPurchase string       `json:"priceAtPurchase"`

	// Joined from the product row for order detail views.
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"imageURL,omitempty"`
	Category string `json:"category,omitempty"`
}

// AdminOrder decorates an order with the customer identity for the dashboard.
type AdminOrder struct {
	Order
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Items     []Item `json:"items"`
}
