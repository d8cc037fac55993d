package order

// CheckoutItem is one selected cart line as submitted by the client. Note the
// absence of a price field: the client never gets to name a price.
// swagger:model CheckoutItem
type CheckoutItem struct {
	ProductID int64  `json:"id" example:"5"`
	Quantity  int    `json:"quantity" example:"2"`
	Size      string `json:"size" example:"Regular"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CheckoutRequest is the POST /api/checkout payload.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items"`
	DeliveryAddress string         `json:"deliveryAddress"`
	ContactNumber   string         `json:"contactNumber"`
	Coordinates     *Coordinates   `json:"coordinates,omitempty"`
	Instructions    string         `json:"instructions,omitempty"`

	// Optional dedup token taken from the Idempotency-Key header, not the body.
	IdempotencyKey string `json:"-"`
}

// FeedbackRequest is the post-delivery feedback payload. Received selects the
// rating branch; otherwise the issue/redelivery branch is written.
// swagger:model FeedbackRequest
type FeedbackRequest struct {
	Received          bool   `json:"received"`
	Rating            int    `json:"rating,omitempty"`
	Feedback          string `json:"feedback"`
	Issue             string `json:"issue,omitempty"`
	RequestRedelivery bool   `json:"requestRedelivery,omitempty"`
}
