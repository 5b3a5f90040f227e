package enums

import (
	"fmt"
	"strings"
)

// ReviewOrderStatus tracks a review-card order. Review cards skip the
// shipping pipeline; they move straight from design to delivery.
type ReviewOrderStatus string

const (
	ReviewOrderStatusPending         ReviewOrderStatus = "pending"
	ReviewOrderStatusConfirmed       ReviewOrderStatus = "confirmed"
	ReviewOrderStatusDesignCompleted ReviewOrderStatus = "design_completed"
	ReviewOrderStatusDelivered       ReviewOrderStatus = "delivered"
	ReviewOrderStatusRejected        ReviewOrderStatus = "rejected"
)

var validReviewOrderStatuses = []ReviewOrderStatus{
	ReviewOrderStatusPending,
	ReviewOrderStatusConfirmed,
	ReviewOrderStatusDesignCompleted,
	ReviewOrderStatusDelivered,
	ReviewOrderStatusRejected,
}

var reviewOrderStatusTransitions = map[ReviewOrderStatus][]ReviewOrderStatus{
	ReviewOrderStatusPending:         {ReviewOrderStatusConfirmed, ReviewOrderStatusRejected},
	ReviewOrderStatusConfirmed:       {ReviewOrderStatusDesignCompleted, ReviewOrderStatusRejected},
	ReviewOrderStatusDesignCompleted: {ReviewOrderStatusDelivered},
	ReviewOrderStatusDelivered:       {},
	ReviewOrderStatusRejected:        {},
}

// String implements fmt.Stringer.
func (s ReviewOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReviewOrderStatus.
func (s ReviewOrderStatus) IsValid() bool {
	for _, candidate := range validReviewOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status may move to target.
func (s ReviewOrderStatus) CanTransitionTo(target ReviewOrderStatus) bool {
	for _, candidate := range reviewOrderStatusTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseReviewOrderStatus converts raw input into a ReviewOrderStatus.
func ParseReviewOrderStatus(value string) (ReviewOrderStatus, error) {
	for _, candidate := range validReviewOrderStatuses {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review order status %q", value)
}
