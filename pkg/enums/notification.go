package enums

// NotificationType labels the activity feed entries.
type NotificationType string

const (
	NotificationOrderCreated    NotificationType = "order_created"
	NotificationOrderStatus     NotificationType = "order_status"
	NotificationLeadCaptured    NotificationType = "lead_captured"
	NotificationPaymentReceived NotificationType = "payment_received"
	NotificationProfileTransfer NotificationType = "profile_transfer"
	NotificationEnquiry         NotificationType = "enquiry"
)

func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a recognised notification type.
func (n NotificationType) IsValid() bool {
	switch n {
	case NotificationOrderCreated, NotificationOrderStatus, NotificationLeadCaptured,
		NotificationPaymentReceived, NotificationProfileTransfer, NotificationEnquiry:
		return true
	}
	return false
}
