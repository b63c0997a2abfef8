package repayment

import "context"

type Repository interface {
	Create(ctx context.Context, r *Repayment) error

	// Get by public receipt_id
	GetByReceiptID(ctx context.Context, receiptID string) (*Repayment, error)

	// Newest first
	ListByBorrower(ctx context.Context, borrower string) ([]Repayment, error)
}
