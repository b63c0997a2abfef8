package loan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"lending-ledger/internal/domain/chain"
	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/repayment"
	"lending-ledger/internal/domain/uow"
	"lending-ledger/pkg/id"

	"github.com/rs/zerolog/log"
)

type Usecase struct {
	repo       domain.Repository
	repayments repayment.Repository
	uow        uow.UnitOfWork
	clock      chain.Clock
	lender     string
}

// NewUsecase wires the loan repo, the receipt repo, a UoW for the repay flow
// and the block clock. An empty lender falls back to domain.DefaultLender.
func NewUsecase(loans domain.Repository, repayments repayment.Repository, tx uow.UnitOfWork, clock chain.Clock, lender string) *Usecase {
	if lender == "" {
		lender = domain.DefaultLender
	}
	return &Usecase{repo: loans, repayments: repayments, uow: tx, clock: clock, lender: lender}
}

func (u *Usecase) Offer(ctx context.Context, in OfferInput) (*OfferResult, error) {
	if in.Borrower == "" || !validMoney(in.Amount) || !validMoney(in.InterestRate) {
		return nil, domain.ErrInvalidInput
	}
	if u.uow == nil {
		return nil, errors.New("offer requires a unit of work")
	}

	l := &domain.Loan{
		Borrower:     in.Borrower,
		Amount:       in.Amount,
		InterestRate: in.InterestRate,
		Deadline:     in.Deadline,
		Lender:       u.lender,
		CreatedAt:    time.Now().UTC(),
	}
	// One active loan per borrower. The check and the insert share a tx; a
	// racing insert still surfaces as ErrLoanExists from the primary key.
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Loans.GetByBorrower(ctx, in.Borrower)
		switch {
		case err == nil:
			return domain.ErrLoanExists
		case !errors.Is(err, domain.ErrLoanNotFound):
			return err
		}
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("borrower", l.Borrower).
		Float64("amount", l.Amount).
		Float64("interest_rate", l.InterestRate).
		Uint64("deadline", l.Deadline).
		Msg("loan offered")

	return &OfferResult{Message: MsgOffered, Loan: toLoanDTO(l)}, nil
}

func (u *Usecase) Repay(ctx context.Context, in RepayInput) (*RepayResult, error) {
	if !validMoney(in.Amount) {
		return nil, domain.ErrInvalidInput
	}
	if u.uow == nil || u.clock == nil {
		return nil, errors.New("repay requires a unit of work and a block clock")
	}
	var rec *repayment.Repayment

	err := u.uow.WithinBorrowerTx(ctx, in.Borrower, func(r uow.Repos, l *domain.Loan) error {
		height, err := u.clock.Height(ctx)
		if err != nil {
			return fmt.Errorf("read block height: %w", err)
		}
		if l.Expired(height) {
			return domain.ErrDeadlinePassed
		}
		due := l.TotalRepayable()
		if in.Amount < due {
			return domain.ErrInsufficientRepayment
		}

		if err := r.Loans.Delete(ctx, l.Borrower); err != nil {
			return err
		}
		rec = &repayment.Repayment{
			ReceiptID:    id.NewID32(),
			Borrower:     l.Borrower,
			Lender:       l.Lender,
			Principal:    l.Amount,
			InterestRate: l.InterestRate,
			Due:          due,
			Paid:         in.Amount,
			Height:       height,
			CreatedAt:    time.Now().UTC(),
		}
		return r.Repayments.Create(ctx, rec)
	})
	if err != nil {
		log.Debug().Err(err).Str("borrower", in.Borrower).Float64("amount", in.Amount).Msg("repay rejected")
		return nil, err
	}

	log.Info().
		Str("borrower", rec.Borrower).
		Str("receipt_id", rec.ReceiptID).
		Float64("paid", rec.Paid).
		Uint64("height", rec.Height).
		Msg("loan repaid")

	return &RepayResult{Message: MsgRepaid, Receipt: toReceiptDTO(rec)}, nil
}

// validMoney accepts finite non-negative amounts. NaN compares false against
// everything, so it has to be ruled out explicitly.
func validMoney(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (u *Usecase) Get(ctx context.Context, borrower string) (*LoanDTO, error) {
	l, err := u.repo.GetByBorrower(ctx, borrower)
	if err != nil {
		return nil, err
	}
	dto := toLoanDTO(l)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context) ([]LoanDTO, error) {
	loans, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, toLoanDTO(&loans[i]))
	}
	return out, nil
}

func (u *Usecase) Receipts(ctx context.Context, borrower string) ([]ReceiptDTO, error) {
	rs, err := u.repayments.ListByBorrower(ctx, borrower)
	if err != nil {
		return nil, err
	}
	out := make([]ReceiptDTO, 0, len(rs))
	for i := range rs {
		out = append(out, toReceiptDTO(&rs[i]))
	}
	return out, nil
}

func (u *Usecase) Receipt(ctx context.Context, receiptID string) (*ReceiptDTO, error) {
	r, err := u.repayments.GetByReceiptID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	dto := toReceiptDTO(r)
	return &dto, nil
}

func (u *Usecase) Height(ctx context.Context) (uint64, error) { return u.clock.Height(ctx) }

func (u *Usecase) Advance(ctx context.Context, n uint64) (uint64, error) {
	if n == 0 {
		return 0, chain.ErrInvalidAdvance
	}
	h, err := u.clock.Advance(ctx, n)
	if err != nil {
		return 0, err
	}
	log.Debug().Uint64("blocks", n).Uint64("height", h).Msg("chain advanced")
	return h, nil
}
