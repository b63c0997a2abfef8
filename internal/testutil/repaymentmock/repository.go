package repaymentmock

import (
	"context"

	domain "lending-ledger/internal/domain/repayment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, r *domain.Repayment) error
	GetByReceiptIDFn func(ctx context.Context, receiptID string) (*domain.Repayment, error)
	ListByBorrowerFn func(ctx context.Context, borrower string) ([]domain.Repayment, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Repayment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByReceiptID(ctx context.Context, receiptID string) (*domain.Repayment, error) {
	if m.GetByReceiptIDFn != nil {
		return m.GetByReceiptIDFn(ctx, receiptID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByBorrower(ctx context.Context, borrower string) ([]domain.Repayment, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrower)
	}
	return nil, nil
}
