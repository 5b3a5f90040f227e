package enquiries

import (
	"context"

	"github.com/google/uuid"

	"github.com/taptune/taptune-backend/pkg/db/models"
	"github.com/taptune/taptune-backend/pkg/pagination"
)

// Repository defines persistence operations for contact enquiries.
type Repository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) (*models.Enquiry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Enquiry, error)
	List(ctx context.Context, unresolvedOnly bool, params pagination.Params) (*List, error)
	MarkResolved(ctx context.Context, id uuid.UUID) (int64, error)
}

// List is one page of enquiries plus the cursor for the next page.
type List struct {
	Enquiries  []models.Enquiry
	NextCursor string
}
