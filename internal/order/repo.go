package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flourever/storefront/internal/database"
	"github.com/flourever/storefront/internal/pricing"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrValidation        = errors.New("invalid request")
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrDuplicate carries the id of the order a repeated idempotency key
	// already created.
	ErrDuplicate = errors.New("checkout already processed")
)

type Repository interface {
	Checkout(ctx context.Context, customerID int64, req *CheckoutRequest) (int64, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	GetByID(ctx context.Context, id, customerID int64) (*Order, []Item, error)
	SaveFeedback(ctx context.Context, id, customerID int64, fb *FeedbackRequest) error
	UpdateStatus(ctx context.Context, id int64, to Status) error
	ListAll(ctx context.Context) ([]AdminOrder, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, s Status) (int, error)
}

type PGRepo struct{ db database.Pool }

func NewPGRepo(db database.Pool) *PGRepo { return &PGRepo{db: db} }

type pricedItem struct {
	ProductID int64
	Quantity  int
	Size      pricing.Size
	UnitPrice decimal.Decimal
}

// priceItems recomputes every unit price from the authoritative base prices
// and accumulates the order total. Client-sent prices never reach this code.
func priceItems(items []CheckoutItem, basePrices map[int64]decimal.Decimal) ([]pricedItem, decimal.Decimal, error) {
	priced := make([]pricedItem, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		size, err := pricing.ParseSize(it.Size)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		base, ok := basePrices[it.ProductID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: product %d", ErrProductNotFound, it.ProductID)
		}
		unit := pricing.UnitPrice(base, size)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(it.Quantity))))
		priced = append(priced, pricedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      size,
			UnitPrice: unit,
		})
	}
	return priced, total, nil
}

// Checkout runs the whole checkout as one transaction: authoritative price
// lookup, order + item inserts and the delivery-defaults update all commit or
// roll back together. Returns the new order id.
func (r *PGRepo) Checkout(ctx context.Context, customerID int64, req *CheckoutRequest) (int64, error) {
	if len(req.Items) == 0 {
		return 0, fmt.Errorf("%w: no items in cart", ErrValidation)
	}
	if req.DeliveryAddress == "" || req.ContactNumber == "" {
		return 0, fmt.Errorf("%w: delivery address and contact number are required", ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if req.IdempotencyKey != "" {
		var existing int64
		err := tx.QueryRow(ctx, `
			SELECT id FROM orders WHERE customer_id=$1 AND idempotency_key=$2
		`, customerID, req.IdempotencyKey).Scan(&existing)
		if err == nil {
			return existing, ErrDuplicate
		}
	}

	ids := make([]int64, 0, len(req.Items))
	seen := make(map[int64]bool, len(req.Items))
	for _, it := range req.Items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}

	rows, err := tx.Query(ctx, `
		SELECT id, price::text FROM products WHERE id = ANY($1) AND is_active
	`, ids)
	if err != nil {
		return 0, err
	}
	basePrices := make(map[int64]decimal.Decimal, len(ids))
	for rows.Next() {
		var id int64
		var price string
		if err := rows.Scan(&id, &price); err != nil {
			rows.Close()
			return 0, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			rows.Close()
			return 0, err
		}
		basePrices[id] = d
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	priced, total, err := priceItems(req.Items, basePrices)
	if err != nil {
		return 0, err
	}

	var lat, lng *float64
	if req.Coordinates != nil {
		lat, lng = &req.Coordinates.Lat, &req.Coordinates.Lng
	}
	var instructions *string
	if req.Instructions != "" {
		instructions = &req.Instructions
	}
	var idemKey *string
	if req.IdempotencyKey != "" {
		idemKey = &req.IdempotencyKey
	}

	var orderID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, total_price, order_status, delivery_address,
			contact_number, delivery_lat, delivery_lng, delivery_instructions,
			order_date, idempotency_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),$9)
		RETURNING id
	`, customerID, total.String(), StatusPending, req.DeliveryAddress,
		req.ContactNumber, lat, lng, instructions, idemKey).Scan(&orderID); err != nil {
		return 0, err
	}

	for _, it := range priced {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, size, price_at_purchase)
			VALUES ($1,$2,$3,$4,$5)
		`, orderID, it.ProductID, it.Quantity, it.Size, it.UnitPrice.String()); err != nil {
			return 0, err
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET
			default_contact_number=$2,
			default_address=$3,
			default_lat=$4,
			default_lng=$5,
			default_instructions=$6
		WHERE id=$1
	`, customerID, req.ContactNumber, req.DeliveryAddress, lat, lng, instructions); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return orderID, nil
}

const orderColumns = `id, customer_id, total_price::text, order_status,
	delivery_address, contact_number, delivery_lat, delivery_lng,
	delivery_instructions, order_date, rating, issue_reported, feedback,
	request_redelivery`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.TotalPrice, &o.Status,
		&o.DeliveryAddress, &o.ContactNumber, &o.DeliveryLat, &o.DeliveryLng,
		&o.DeliveryInstructions, &o.OrderDate, &o.Rating, &o.IssueReported,
		&o.Feedback, &o.RequestRedelivery)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id=$1 ORDER BY order_date DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id, customerID int64) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id=$1 AND customer_id=$2
	`, id, customerID))
	if err != nil {
		return nil, nil, ErrNotFound
	}

	items, err := r.itemsFor(ctx, []int64{id})
	if err != nil {
		return nil, nil, err
	}
	return o, items[id], nil
}

func (r *PGRepo) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.size,
			oi.price_at_purchase::text, p.name, p.image_url, p.category
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]Item)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.Size, &it.PriceAtPurchase, &it.Name, &it.ImageURL, &it.Category); err != nil {
			return nil, err
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func (r *PGRepo) SaveFeedback(ctx context.Context, id, customerID int64, fb *FeedbackRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if fb.Received {
		if fb.Rating < 1 || fb.Rating > 5 {
			return fmt.Errorf("%w: rating must be 1-5", ErrValidation)
		}
		tag, err := r.db.Exec(ctx, `
			UPDATE orders SET rating=$3, feedback=$4 WHERE id=$1 AND customer_id=$2
		`, id, customerID, fb.Rating, fb.Feedback)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	}

	if fb.Issue == "" {
		return fmt.Errorf("%w: issue description required", ErrValidation)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET issue_reported=$3, feedback=$4, request_redelivery=$5
		WHERE id=$1 AND customer_id=$2
	`, id, customerID, fb.Issue, fb.Feedback, fb.RequestRedelivery)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves an order through the state machine. The current row is
// locked so concurrent admin updates serialize, the transition table is
// enforced, and Redelivering additionally requires a reported issue with a
// redelivery request.
func (r *PGRepo) UpdateStatus(ctx context.Context, id int64, to Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var fromStr string
	var issue *string
	var redelivery bool
	err = tx.QueryRow(ctx, `
		SELECT order_status, issue_reported, request_redelivery
		FROM orders WHERE id=$1 FOR UPDATE
	`, id).Scan(&fromStr, &issue, &redelivery)
	if err != nil {
		return ErrNotFound
	}
	from := Status(fromStr)

	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if to == StatusRedelivering && (issue == nil || !redelivery) {
		return fmt.Errorf("%w: redelivery not requested", ErrInvalidTransition)
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET order_status=$2 WHERE id=$1`, id, to); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]AdminOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.customer_id, o.total_price::text, o.order_status,
			o.delivery_address, o.contact_number, o.delivery_lat, o.delivery_lng,
			o.delivery_instructions, o.order_date, o.rating, o.issue_reported,
			o.feedback, o.request_redelivery,
			u.first_name, u.last_name, u.email
		FROM orders o
		JOIN users u ON u.id = o.customer_id
		ORDER BY o.order_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminOrder
	var ids []int64
	for rows.Next() {
		var a AdminOrder
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.TotalPrice, &a.Status,
			&a.DeliveryAddress, &a.ContactNumber, &a.DeliveryLat, &a.DeliveryLng,
			&a.DeliveryInstructions, &a.OrderDate, &a.Rating, &a.IssueReported,
			&a.Feedback, &a.RequestRedelivery,
			&a.FirstName, &a.LastName, &a.Email); err != nil {
			return nil, err
		}
		out = append(out, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *PGRepo) CountByStatus(ctx context.Context, s Status) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE order_status=$1`, s).Scan(&n)
	return n, err
}
