package loan

import (
	"time"

	domain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/repayment"
)

const (
	MsgOffered = "Loan offered successfully"
	MsgRepaid  = "Loan repaid successfully"
)

type OfferInput struct {
	Borrower     string  `json:"borrower"`
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	Deadline     uint64  `json:"deadline"`
}

type RepayInput struct {
	Borrower string  `json:"borrower"`
	Amount   float64 `json:"amount"`
}

type LoanDTO struct {
	Borrower       string    `json:"borrower"`
	Amount         float64   `json:"amount"`
	InterestRate   float64   `json:"interest_rate"`
	Deadline       uint64    `json:"deadline"`
	Lender         string    `json:"lender"`
	TotalRepayable float64   `json:"total_repayable"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReceiptDTO struct {
	ReceiptID    string    `json:"receipt_id"`
	Borrower     string    `json:"borrower"`
	Lender       string    `json:"lender"`
	Principal    float64   `json:"principal"`
	InterestRate float64   `json:"interest_rate"`
	Due          float64   `json:"due"`
	Paid         float64   `json:"paid"`
	Height       uint64    `json:"height"`
	RepaidAt     time.Time `json:"repaid_at"`
}

type OfferResult struct {
	Message string  `json:"message"`
	Loan    LoanDTO `json:"loan"`
}

type RepayResult struct {
	Message string     `json:"message"`
	Receipt ReceiptDTO `json:"receipt"`
}

func toLoanDTO(l *domain.Loan) LoanDTO {
	return LoanDTO{
		Borrower:       l.Borrower,
		Amount:         l.Amount,
		InterestRate:   l.InterestRate,
		Deadline:       l.Deadline,
		Lender:         l.Lender,
		TotalRepayable: l.TotalRepayable(),
		CreatedAt:      l.CreatedAt,
	}
}

func toReceiptDTO(r *repayment.Repayment) ReceiptDTO {
	return ReceiptDTO{
		ReceiptID:    r.ReceiptID,
		Borrower:     r.Borrower,
		Lender:       r.Lender,
		Principal:    r.Principal,
		InterestRate: r.InterestRate,
		Due:          r.Due,
		Paid:         r.Paid,
		Height:       r.Height,
		RepaidAt:     r.CreatedAt,
	}
}
