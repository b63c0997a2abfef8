package uow

import (
	"context"

	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/repayment"
)

type Repos struct {
	Loans      loan.Repository
	Repayments repayment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the borrower's loan first, then pass it in
	WithinBorrowerTx(ctx context.Context, borrower string, fn func(r Repos, l *loan.Loan) error) error
}
