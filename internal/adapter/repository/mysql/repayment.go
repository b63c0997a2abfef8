package mysql

import (
	"context"
	"errors"

	repaymentDomain "lending-ledger/internal/domain/repayment"

	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

func (r *RepaymentRepository) Create(ctx context.Context, p *repaymentDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *RepaymentRepository) GetByReceiptID(ctx context.Context, receiptID string) (*repaymentDomain.Repayment, error) {
	var out repaymentDomain.Repayment
	res := r.db.WithContext(ctx).Where("receipt_id = ?", receiptID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, repaymentDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *RepaymentRepository) ListByBorrower(ctx context.Context, borrower string) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("borrower = ?", borrower).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
