package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

const memberColumns = `id, name, phone, email, address, avatar_url, membership_type,
	start_date, end_date, is_active, last_payment_date, next_payment_date, notes,
	created_at, updated_at`

// memberFieldColumns maps updatable field names to their columns. ID and
// CreatedAt are deliberately absent: identity and creation timestamp are
// never updatable.
var memberFieldColumns = map[string]string{
	types.FieldName:            "name",
	types.FieldPhone:           "phone",
	types.FieldEmail:           "email",
	types.FieldAddress:         "address",
	types.FieldAvatarURL:       "avatar_url",
	types.FieldMembershipType:  "membership_type",
	types.FieldStartDate:       "start_date",
	types.FieldEndDate:         "end_date",
	types.FieldIsActive:        "is_active",
	types.FieldLastPaymentDate: "last_payment_date",
	types.FieldNextPaymentDate: "next_payment_date",
	types.FieldNotes:           "notes",
}

// AddMember persists a new member, assigning the ID and both timestamps.
func (b *Backend) AddMember(ctx context.Context, m *types.Member) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	id := generateUUID()
	now := time.Now()

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, m.Name, m.Phone, m.Email, m.Address, m.AvatarURL, m.MembershipType,
		fmtTime(m.StartDate), fmtTime(m.EndDate), boolToInt(m.IsActive),
		fmtTimePtr(m.LastPaymentDate), fmtTimePtr(m.NextPaymentDate), m.Notes,
		fmtTime(now), fmtTime(now),
	)
	if err != nil {
		return "", fmt.Errorf("insert member: %w", err)
	}

	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return id, nil
}

// GetMember retrieves a member by ID.
func (b *Backend) GetMember(ctx context.Context, id string) (*types.Member, error) {
	row := b.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ?", id)

	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// GetAllMembers returns every member, newest first.
func (b *Backend) GetAllMembers(ctx context.Context) ([]types.Member, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []types.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// UpdateMember builds an UPDATE statement from the supplied field set,
// silently dropping identity, creation timestamp, and any other field outside
// the updatable column map, and always re-stamps the update timestamp.
// Returns (false, nil) when nothing updatable was supplied or the ID matched
// no member.
func (b *Backend) UpdateMember(ctx context.Context, id string, updates map[string]any) (bool, error) {
	var setClause []string
	var values []any

	for _, field := range orderedMemberFields {
		value, ok := updates[field]
		if !ok {
			continue
		}
		column := memberFieldColumns[field]
		setClause = append(setClause, column+" = ?")
		v, err := bindMemberValue(field, value)
		if err != nil {
			return false, err
		}
		values = append(values, v)
	}
	if len(setClause) == 0 {
		return false, nil
	}

	setClause = append(setClause, "updated_at = ?")
	values = append(values, fmtTime(time.Now()), id)

	res, err := b.db.ExecContext(ctx,
		"UPDATE members SET "+strings.Join(setClause, ", ")+" WHERE id = ?", values...)
	if err != nil {
		return false, fmt.Errorf("update member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update member rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteMember removes the member and, as part of the same transaction, all
// of that member's reminders and payment transactions. The cascade is
// explicit rather than relying on foreign-key enforcement.
func (b *Backend) DeleteMember(ctx context.Context, id string) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM payment_transactions WHERE member_id = ?", id); err != nil {
		return fmt.Errorf("delete member payments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reminders WHERE member_id = ?", id); err != nil {
		return fmt.Errorf("delete member reminders: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member rows affected: %w", err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// orderedMemberFields fixes the SET-clause ordering so statements are stable.
var orderedMemberFields = []string{
	types.FieldName,
	types.FieldPhone,
	types.FieldEmail,
	types.FieldAddress,
	types.FieldAvatarURL,
	types.FieldMembershipType,
	types.FieldStartDate,
	types.FieldEndDate,
	types.FieldIsActive,
	types.FieldLastPaymentDate,
	types.FieldNextPaymentDate,
	types.FieldNotes,
}

// bindMemberValue converts an update value to its column representation.
func bindMemberValue(field string, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool:
		return boolToInt(v), nil
	case time.Time:
		return fmtTime(v), nil
	case *time.Time:
		return fmtTimePtr(v), nil
	case float64:
		return v, nil
	case int:
		return v, nil
	default:
		return nil, fmt.Errorf("member field %q has unsupported type %T: %w", field, value, types.ErrInvalidData)
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*types.Member, error) {
	var m types.Member
	var email, address, avatarURL, notes sql.NullString
	var startDate, endDate, createdAt, updatedAt string
	var lastPayment, nextPayment sql.NullString
	var isActive int

	err := row.Scan(&m.ID, &m.Name, &m.Phone, &email, &address, &avatarURL,
		&m.MembershipType, &startDate, &endDate, &isActive,
		&lastPayment, &nextPayment, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	m.Email = email.String
	m.Address = address.String
	m.AvatarURL = avatarURL.String
	m.Notes = notes.String
	m.IsActive = isActive == 1

	if m.StartDate, err = parseTime(startDate); err != nil {
		return nil, err
	}
	if m.EndDate, err = parseTime(endDate); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if m.LastPaymentDate, err = parseTimePtr(lastPayment); err != nil {
		return nil, err
	}
	if m.NextPaymentDate, err = parseTimePtr(nextPayment); err != nil {
		return nil, err
	}
	return &m, nil
}
