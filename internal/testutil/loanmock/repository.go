package loanmock

import (
	"context"

	domain "lending-ledger/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return domain.ErrLoanNotFound; unset writes are no-ops.
type Repo struct {
	CreateFn                 func(ctx context.Context, l *domain.Loan) error
	GetByBorrowerFn          func(ctx context.Context, borrower string) (*domain.Loan, error)
	GetByBorrowerForUpdateFn func(ctx context.Context, borrower string) (*domain.Loan, error)
	DeleteFn                 func(ctx context.Context, borrower string) error
	ListFn                   func(ctx context.Context) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByBorrower(ctx context.Context, borrower string) (*domain.Loan, error) {
	if m.GetByBorrowerFn != nil {
		return m.GetByBorrowerFn(ctx, borrower)
	}
	return nil, domain.ErrLoanNotFound
}

func (m *Repo) GetByBorrowerForUpdate(ctx context.Context, borrower string) (*domain.Loan, error) {
	if m.GetByBorrowerForUpdateFn != nil {
		return m.GetByBorrowerForUpdateFn(ctx, borrower)
	}
	return nil, domain.ErrLoanNotFound
}

func (m *Repo) Delete(ctx context.Context, borrower string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, borrower)
	}
	return nil
}

func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
