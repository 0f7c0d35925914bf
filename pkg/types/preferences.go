package types

// UserPreferences holds per-user notification and locale settings, persisted
// as a JSONB blob on the user row.
type UserPreferences struct {
	Newsletter bool   `json:"newsletter"`
	SMSAlerts  bool   `json:"sms_alerts"`
	Language   string `json:"language,omitempty"`
	Currency   string `json:"currency,omitempty"`
}
