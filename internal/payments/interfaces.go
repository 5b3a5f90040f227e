package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taptune/taptune-backend/pkg/db/models"
)

// Repository defines persistence over payment attempts. Create enforces the
// (razorpay_order_id, attempt) uniqueness and surfaces violations as
// conflicts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindLatestByGatewayOrder(ctx context.Context, razorpayOrderID string) (*models.Payment, error)
	FindByLinkID(ctx context.Context, linkID string) (*models.Payment, error)
	CountAttempts(ctx context.Context, razorpayOrderID string) (int, error)
	ListForOrder(ctx context.Context, cardOrderID uuid.UUID) ([]models.Payment, error)
	MarkPaid(ctx context.Context, id uuid.UUID, razorpayPaymentID string, paidAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.CardOrder, error)
}
