package repository

import (
	"context"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/sheet"
)

// OrderSheetRepository stores encoded sheets. Save returns
// sheet.ErrSheetExists for a duplicate container and name.
type OrderSheetRepository interface {
	Save(ctx context.Context, s *sheet.OrderSheet) error
	FindByName(ctx context.Context, container, name string) (*sheet.OrderSheet, error)
}
