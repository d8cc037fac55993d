package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusBaking, StatusOutForDelivery,
		StatusDelivered, StatusCancelled, StatusRedelivering} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("Shipped").Valid())
	assert.False(t, Status("").Valid())
}

func TestCanTransition(t *testing.T) {
	// happy path
	assert.True(t, CanTransition(StatusPending, StatusBaking))
	assert.True(t, CanTransition(StatusBaking, StatusOutForDelivery))
	assert.True(t, CanTransition(StatusOutForDelivery, StatusDelivered))

	// side branches
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusBaking, StatusCancelled))
	assert.True(t, CanTransition(StatusDelivered, StatusRedelivering))
	assert.True(t, CanTransition(StatusRedelivering, StatusOutForDelivery))

	// rejected moves
	assert.False(t, CanTransition(StatusDelivered, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusBaking))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusDelivered, StatusDelivered))
}
