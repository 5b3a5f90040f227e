package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatusCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"pending", "Pending", "PENDING", " pending "} {
		status, err := ParseOrderStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, OrderStatusPending, status)
	}

	_, err := ParseOrderStatus("shippedd")
	assert.Error(t, err)
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusPending))

	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusConfirmed))
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatus("bogus").IsTerminal())
}

func TestParseRoleNormalizesLegacyCasing(t *testing.T) {
	role, err := ParseRole("Admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("SALES")
	require.NoError(t, err)
	assert.Equal(t, RoleSales, role)
	assert.True(t, role.IsStaff())

	role, err = ParseRole("user")
	require.NoError(t, err)
	assert.False(t, role.IsStaff())

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestReviewOrderStatusTransitions(t *testing.T) {
	assert.True(t, ReviewOrderStatusPending.CanTransitionTo(ReviewOrderStatusConfirmed))
	assert.True(t, ReviewOrderStatusConfirmed.CanTransitionTo(ReviewOrderStatusDesignCompleted))
	assert.False(t, ReviewOrderStatusPending.CanTransitionTo(ReviewOrderStatusDelivered))
	assert.False(t, ReviewOrderStatusDelivered.CanTransitionTo(ReviewOrderStatusPending))
}
