package loan

import (
	"errors"
	"time"
)

// DefaultLender is recorded as the lender when the service runs without an
// explicit lender identity.
const DefaultLender = "tx-sender"

var (
	ErrLoanExists            = errors.New("Loan already offered to this borrower")
	ErrLoanNotFound          = errors.New("No loan found for this borrower.")
	ErrDeadlinePassed        = errors.New("Loan repayment deadline has passed.")
	ErrInsufficientRepayment = errors.New("Insufficient repayment amount.")
	ErrInvalidInput          = errors.New("invalid input")
)

// Table: loans. One row per borrower; the row is removed once repaid.
type Loan struct {
	Borrower     string    `gorm:"column:borrower;primaryKey;size:64" json:"borrower"`
	Amount       float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	InterestRate float64   `gorm:"column:interest_rate;type:decimal(9,4);not null" json:"interest_rate"`
	Deadline     uint64    `gorm:"column:deadline;not null" json:"deadline"`
	Lender       string    `gorm:"column:lender;size:64;not null" json:"lender"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Loan) TableName() string { return "loans" }

// TotalRepayable is principal plus simple interest, rate given in percent.
func (l *Loan) TotalRepayable() float64 {
	return l.Amount + (l.Amount*l.InterestRate)/100
}

// Expired reports whether height is past the repayment deadline.
// Repaying at exactly the deadline height is still allowed.
func (l *Loan) Expired(height uint64) bool { return height > l.Deadline }
