package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	postgres := errors.New(`duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)
	sqlite := errors.New("UNIQUE constraint failed: payments.razorpay_order_id, payments.attempt")
	other := errors.New("connection refused")

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(other))
	assert.False(t, IsUniqueViolation(other, "idx_users_email"))

	assert.True(t, IsUniqueViolation(postgres))
	assert.True(t, IsUniqueViolation(postgres, "idx_users_email", "users.email"))
	assert.False(t, IsUniqueViolation(postgres, "idx_users_referral_code", "users.referral_code"))

	// sqlite never includes the index name, only the column list
	assert.True(t, IsUniqueViolation(sqlite))
	assert.True(t, IsUniqueViolation(sqlite, "idx_payments_razorpay_order_attempt", "payments.razorpay_order_id"))
	assert.False(t, IsUniqueViolation(sqlite, "idx_users_email", "users.email"))
}
