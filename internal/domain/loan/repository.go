package loan

import "context"

// Repository implementations translate "no row" into ErrLoanNotFound and a
// duplicate borrower key into ErrLoanExists.
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByBorrower(ctx context.Context, borrower string) (*Loan, error)
	// Same as GetByBorrower but locks the row inside a transaction
	GetByBorrowerForUpdate(ctx context.Context, borrower string) (*Loan, error)
	Delete(ctx context.Context, borrower string) error
	List(ctx context.Context) ([]Loan, error)
}
