package types

import "time"

// Backup frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// validFrequencies is the set of recognized backup frequencies.
var validFrequencies = map[string]bool{
	FrequencyDaily:   true,
	FrequencyWeekly:  true,
	FrequencyMonthly: true,
	FrequencyYearly:  true,
}

// BackupSettings is the singleton backup configuration row. Exactly one
// logical instance exists at all times; it is seeded during initialization.
type BackupSettings struct {
	Frequency  string     `json:"frequency"`
	IsEnabled  bool       `json:"isEnabled"`
	LastBackup *time.Time `json:"lastBackup,omitempty"`
	NextBackup *time.Time `json:"nextBackup,omitempty"`
}

// DefaultBackupSettings returns the settings seeded on first initialization.
func DefaultBackupSettings() BackupSettings {
	return BackupSettings{Frequency: FrequencyWeekly, IsEnabled: false}
}

// Validate checks that the settings are well-formed for persistence.
func (s *BackupSettings) Validate() error {
	if !validFrequencies[s.Frequency] {
		return ErrInvalidFrequency
	}
	return nil
}
