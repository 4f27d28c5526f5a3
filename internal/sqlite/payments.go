package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// AddPayment persists a new payment transaction, assigning the ID and
// creation timestamp.
func (b *Backend) AddPayment(ctx context.Context, p *types.PaymentTransaction) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	id := generateUUID()
	now := time.Now()

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO payment_transactions (id, member_id, amount, payment_date, payment_mode, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.MemberID, p.Amount, fmtTime(p.PaymentDate), p.PaymentMode, p.Description, fmtTime(now),
	)
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	return id, nil
}

// GetPayments returns payment transactions newest first. An empty memberID
// returns all transactions.
func (b *Backend) GetPayments(ctx context.Context, memberID string) ([]types.PaymentTransaction, error) {
	query := `SELECT id, member_id, amount, payment_date, payment_mode, description, created_at
		FROM payment_transactions`
	var args []any
	if memberID != "" {
		query += " WHERE member_id = ?"
		args = append(args, memberID)
	}
	query += " ORDER BY payment_date DESC"

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []types.PaymentTransaction
	for rows.Next() {
		var p types.PaymentTransaction
		var paymentDate, created string
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.MemberID, &p.Amount, &paymentDate,
			&p.PaymentMode, &description, &created); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Description = description.String
		if p.PaymentDate, err = parseTime(paymentDate); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}
