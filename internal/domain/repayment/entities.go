package repayment

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("repayment not found")
)

// Table: repayments. Written in the same transaction that removes the loan.
type Repayment struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	ReceiptID    string    `gorm:"column:receipt_id;type:char(32);not null;uniqueIndex:ux_repayments_receipt_id" json:"receipt_id"`
	Borrower     string    `gorm:"column:borrower;size:64;not null;index:idx_repayments_borrower" json:"borrower"`
	Lender       string    `gorm:"column:lender;size:64;not null" json:"lender"`
	Principal    float64   `gorm:"column:principal;type:decimal(18,2);not null" json:"principal"`
	InterestRate float64   `gorm:"column:interest_rate;type:decimal(9,4);not null" json:"interest_rate"`
	Due          float64   `gorm:"column:due;type:decimal(18,4);not null" json:"due"`
	Paid         float64   `gorm:"column:paid;type:decimal(18,2);not null" json:"paid"`
	Height       uint64    `gorm:"column:height;not null" json:"height"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Repayment) TableName() string { return "repayments" }
