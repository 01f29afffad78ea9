package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransitionChain(t *testing.T) {
	o := Order{Status: OrderStatusPending}

	for _, next := range []string{
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
	} {
		require.NoError(t, o.Transition(next))
		assert.Equal(t, next, o.Status)
	}
}

func TestOrderTransitionRejectsSkipsAndReversals(t *testing.T) {
	cases := []struct{ from, to string }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusConfirmed, OrderStatusShipped},
		{OrderStatusDelivered, OrderStatusConfirmed},
		{OrderStatusDelivered, OrderStatusShipped},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusConfirmed},
	}

	for _, tc := range cases {
		o := Order{Status: tc.from}
		err := o.Transition(tc.to)

		var invalid *ErrInvalidTransition
		require.ErrorAs(t, err, &invalid, "%s -> %s should be rejected", tc.from, tc.to)
		assert.Equal(t, tc.from, invalid.From)
		assert.Equal(t, tc.to, invalid.To)
		assert.Equal(t, tc.from, o.Status, "status must not move on a rejected transition")
	}
}

func TestCancelledReachableFromEveryNonTerminalState(t *testing.T) {
	for _, from := range []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
	} {
		o := Order{Status: from}
		require.NoError(t, o.Transition(OrderStatusCancelled), "cancel from %s", from)
	}

	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusCancelled))
}

func TestTransitionSources(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{OrderStatusShipped},
		TransitionSources(OrderStatusDelivered))

	assert.ElementsMatch(t,
		[]string{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped},
		TransitionSources(OrderStatusCancelled))

	assert.Empty(t, TransitionSources(OrderStatusPending))
}

func TestSumItems(t *testing.T) {
	items := []OrderItem{
		{Price: dec("50000"), Quantity: 2},
		{Price: dec("30000"), Quantity: 1},
	}

	assert.True(t, items[0].TotalPrice().Equal(dec("100000")))
	assert.True(t, SumItems(items).Equal(dec("130000")))
	assert.True(t, SumItems(nil).IsZero())
}
