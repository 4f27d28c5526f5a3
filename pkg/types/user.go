package types

import "time"

// User is a credential record used only for authentication. The PIN is stored
// and compared as plaintext; hashing is a flagged, unresolved follow-up
// outside this core's contract.
type User struct {
	MobileNumber string    `json:"mobileNumber"`
	PIN          string    `json:"pin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
