package types

import "time"

// Membership plan tiers.
const (
	MembershipMonthly   = "monthly"
	MembershipQuarterly = "quarterly"
	MembershipYearly    = "yearly"
)

// validMembershipTypes is the set of recognized plan tiers.
var validMembershipTypes = map[string]bool{
	MembershipMonthly:   true,
	MembershipQuarterly: true,
	MembershipYearly:    true,
}

// TenorDays maps a membership type to the fixed day count added to a payment
// date when computing the new expiry. The renewal rule is additive days, not
// calendar month/year arithmetic.
var TenorDays = map[string]int{
	MembershipMonthly:   30,
	MembershipQuarterly: 90,
	MembershipYearly:    365,
}

// DefaultPlanAmounts holds the suggested payment amount per plan tier.
// Currency-agnostic; used as a default when recording payments.
var DefaultPlanAmounts = map[string]float64{
	MembershipMonthly:   1000,
	MembershipQuarterly: 2700,
	MembershipYearly:    10000,
}

// Member represents a gym member. JSON tags are the backup interchange names.
type Member struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email,omitempty"`
	Address         string     `json:"address,omitempty"`
	AvatarURL       string     `json:"avatarUrl,omitempty"`
	MembershipType  string     `json:"membershipType"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         time.Time  `json:"endDate"`
	IsActive        bool       `json:"isActive"`
	LastPaymentDate *time.Time `json:"lastPaymentDate,omitempty"`
	NextPaymentDate *time.Time `json:"nextPaymentDate,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Validate checks that the member is well-formed for persistence.
// EndDate must not precede StartDate.
func (m *Member) Validate() error {
	if m.Name == "" {
		return ErrInvalidName
	}
	if m.Phone == "" {
		return ErrInvalidPhone
	}
	if !validMembershipTypes[m.MembershipType] {
		return ErrInvalidMembershipType
	}
	if m.StartDate.IsZero() || m.EndDate.IsZero() {
		return ErrInvalidDateRange
	}
	if m.EndDate.Before(m.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Updatable member field names accepted by Store.UpdateMember.
// ID and CreatedAt are identity fields and are never updatable.
const (
	FieldName            = "name"
	FieldPhone           = "phone"
	FieldEmail           = "email"
	FieldAddress         = "address"
	FieldAvatarURL       = "avatarUrl"
	FieldMembershipType  = "membershipType"
	FieldStartDate       = "startDate"
	FieldEndDate         = "endDate"
	FieldIsActive        = "isActive"
	FieldLastPaymentDate = "lastPaymentDate"
	FieldNextPaymentDate = "nextPaymentDate"
	FieldNotes           = "notes"
)
