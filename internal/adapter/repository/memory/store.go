// Package memory keeps loans and repayments in process memory. It backs the
// STORE_DRIVER=memory mode and the usecase tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/repayment"
	"lending-ledger/internal/domain/uow"
)

type Store struct {
	mu         sync.Mutex
	loans      map[string]loan.Loan
	repayments []repayment.Repayment
	nextID     uint64
}

func NewStore() *Store {
	return &Store{loans: map[string]loan.Loan{}}
}

// Repos returned here lock the store per call.
func (s *Store) Loans() *LoanRepository           { return &LoanRepository{s: s} }
func (s *Store) Repayments() *RepaymentRepository { return &RepaymentRepository{s: s} }

func (s *Store) snapshot() (map[string]loan.Loan, []repayment.Repayment, uint64) {
	loans := make(map[string]loan.Loan, len(s.loans))
	for k, v := range s.loans {
		loans[k] = v
	}
	pays := make([]repayment.Repayment, len(s.repayments))
	copy(pays, s.repayments)
	return loans, pays, s.nextID
}

// ---- loans ----

type LoanRepository struct {
	s    *Store
	inTx bool
}

// lock is a no-op inside a UoW callback, which already holds the store lock.
func (r *LoanRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *LoanRepository) Create(_ context.Context, l *loan.Loan) error {
	defer r.lock()()
	if _, ok := r.s.loans[l.Borrower]; ok {
		return loan.ErrLoanExists
	}
	r.s.loans[l.Borrower] = *l
	return nil
}

func (r *LoanRepository) GetByBorrower(_ context.Context, borrower string) (*loan.Loan, error) {
	defer r.lock()()
	l, ok := r.s.loans[borrower]
	if !ok {
		return nil, loan.ErrLoanNotFound
	}
	return &l, nil
}

func (r *LoanRepository) GetByBorrowerForUpdate(ctx context.Context, borrower string) (*loan.Loan, error) {
	return r.GetByBorrower(ctx, borrower)
}

func (r *LoanRepository) Delete(_ context.Context, borrower string) error {
	defer r.lock()()
	if _, ok := r.s.loans[borrower]; !ok {
		return loan.ErrLoanNotFound
	}
	delete(r.s.loans, borrower)
	return nil
}

func (r *LoanRepository) List(_ context.Context) ([]loan.Loan, error) {
	defer r.lock()()
	out := make([]loan.Loan, 0, len(r.s.loans))
	for _, l := range r.s.loans {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Borrower < out[j].Borrower
	})
	return out, nil
}

// ---- repayments ----

type RepaymentRepository struct {
	s    *Store
	inTx bool
}

func (r *RepaymentRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *RepaymentRepository) Create(_ context.Context, p *repayment.Repayment) error {
	defer r.lock()()
	r.s.nextID++
	p.ID = r.s.nextID
	r.s.repayments = append(r.s.repayments, *p)
	return nil
}

func (r *RepaymentRepository) GetByReceiptID(_ context.Context, receiptID string) (*repayment.Repayment, error) {
	defer r.lock()()
	for i := range r.s.repayments {
		if r.s.repayments[i].ReceiptID == receiptID {
			p := r.s.repayments[i]
			return &p, nil
		}
	}
	return nil, repayment.ErrNotFound
}

func (r *RepaymentRepository) ListByBorrower(_ context.Context, borrower string) ([]repayment.Repayment, error) {
	defer r.lock()()
	out := []repayment.Repayment{}
	for i := len(r.s.repayments) - 1; i >= 0; i-- {
		if r.s.repayments[i].Borrower == borrower {
			out = append(out, r.s.repayments[i])
		}
	}
	return out, nil
}

// ---- unit of work ----

var _ uow.UnitOfWork = (*UoW)(nil)

// UoW serialises callbacks on the store lock and restores the previous
// state when the callback fails.
type UoW struct{ s *Store }

func NewUoW(s *Store) *UoW { return &UoW{s: s} }

func (u *UoW) WithinTx(_ context.Context, fn func(r uow.Repos) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	return u.run(fn)
}

func (u *UoW) WithinBorrowerTx(ctx context.Context, borrower string, fn func(r uow.Repos, l *loan.Loan) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	return u.run(func(r uow.Repos) error {
		l, err := r.Loans.GetByBorrowerForUpdate(ctx, borrower)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

func (u *UoW) run(fn func(r uow.Repos) error) error {
	loans, pays, next := u.s.snapshot()
	err := fn(uow.Repos{
		Loans:      &LoanRepository{s: u.s, inTx: true},
		Repayments: &RepaymentRepository{s: u.s, inTx: true},
	})
	if err != nil {
		u.s.loans, u.s.repayments, u.s.nextID = loans, pays, next
	}
	return err
}
