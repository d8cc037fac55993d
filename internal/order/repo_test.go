package order

import (
	"context"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PGRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPGRepo(mock)
}

func validCheckout() *CheckoutRequest {
	return &CheckoutRequest{
		Items: []CheckoutItem{
			{ProductID: 1, Quantity: 2, Size: "Regular"},
			{ProductID: 2, Quantity: 1, Size: "Large"},
		},
		DeliveryAddress: "12 Mabini St, Quezon City",
		ContactNumber:   "09171234567",
	}
}

func TestCheckoutCommitsOrderItemsAndDefaultsTogether(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, price::text FROM products`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "price"}).
			AddRow(int64(1), "50.00").
			AddRow(int64(2), "80.00"))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO order_items`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback() // deferred rollback after commit is a no-op

	id, err := repo.Checkout(context.Background(), 3, validCheckout())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutEmptyCartWritesNothing(t *testing.T) {
	mock, repo := newMockRepo(t)

	_, err := repo.Checkout(context.Background(), 3, &CheckoutRequest{
		DeliveryAddress: "somewhere",
		ContactNumber:   "09171234567",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = repo.Checkout(context.Background(), 3, &CheckoutRequest{
		Items: []CheckoutItem{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	// neither call may touch the database at all
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutUnknownProductRollsBackEverything(t *testing.T) {
	mock, repo := newMockRepo(t)

	req := validCheckout()
	req.Items = append(req.Items, CheckoutItem{ProductID: 999, Quantity: 1, Size: "Regular"})

	mock.ExpectBegin()
	// product 999 is missing from the authoritative read
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, price::text FROM products`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "price"}).
			AddRow(int64(1), "50.00").
			AddRow(int64(2), "80.00"))
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), 3, req)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet(), "no order or item insert may happen")
}

func TestCheckoutIdempotencyKeyReplay(t *testing.T) {
	mock, repo := newMockRepo(t)

	req := validCheckout()
	req.IdempotencyKey = "2c9d8f1e"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM orders WHERE customer_id`)).
		WithArgs(int64(3), "2c9d8f1e").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectRollback()

	id, err := repo.Checkout(context.Background(), 3, req)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, int64(42), id, "replay returns the order the key already created")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectStatusRead(mock pgxmock.PgxPoolIface, status string, issue any, redelivery bool) {
	if s, ok := issue.(string); ok {
		issue = &s // issue_reported is a nullable column; the repo scans it into *string
	}
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT order_status, issue_reported, request_redelivery`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"order_status", "issue_reported", "request_redelivery"}).
			AddRow(status, issue, redelivery))
}

func TestUpdateStatusHappyPath(t *testing.T) {
	mock, repo := newMockRepo(t)

	expectStatusRead(mock, "Pending", nil, false)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET order_status`)).
		WithArgs(int64(1), StatusBaking).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	assert.NoError(t, repo.UpdateStatus(context.Background(), 1, StatusBaking))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsIllegalMove(t *testing.T) {
	mock, repo := newMockRepo(t)

	expectStatusRead(mock, "Delivered", nil, false)
	mock.ExpectRollback()

	err := repo.UpdateStatus(context.Background(), 1, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRedeliveringNeedsReportedIssue(t *testing.T) {
	mock, repo := newMockRepo(t)

	expectStatusRead(mock, "Delivered", nil, false)
	mock.ExpectRollback()

	err := repo.UpdateStatus(context.Background(), 1, StatusRedelivering)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	expectStatusRead(mock, "Delivered", "cake arrived melted", true)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE orders SET order_status`)).
		WithArgs(int64(1), StatusRedelivering).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	assert.NoError(t, repo.UpdateStatus(context.Background(), 1, StatusRedelivering))
	assert.NoError(t, mock.ExpectationsWereMet())
}
