package types

import "time"

// Payment modes.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentOnline = "online"
	PaymentUPI    = "upi"
)

// validPaymentModes is the set of recognized payment modes.
var validPaymentModes = map[string]bool{
	PaymentCash:   true,
	PaymentCard:   true,
	PaymentOnline: true,
	PaymentUPI:    true,
}

// PaymentTransaction records a single payment by a member. Transactions are
// created only through the payment-recording operation and are removed by the
// cascade when their member is deleted.
type PaymentTransaction struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"memberId"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"paymentDate"`
	PaymentMode string    `json:"paymentMode"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks that the transaction is well-formed for persistence.
func (p *PaymentTransaction) Validate() error {
	if p.MemberID == "" {
		return ErrInvalidData
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !validPaymentModes[p.PaymentMode] {
		return ErrInvalidPaymentMode
	}
	if p.PaymentDate.IsZero() {
		return ErrInvalidDateRange
	}
	return nil
}
