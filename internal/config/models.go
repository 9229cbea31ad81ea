package config

import "time"

// DefaultRequestInterval is the pause enforced between two API calls
const DefaultRequestInterval = 3 * time.Second

// Settings is the content of config.yaml. Keys keep the upper-case names
// operators already use in their files.
type Settings struct {
	URL           string `yaml:"FS_URL" validate:"omitempty,url"`
	AdminUsername string `yaml:"FS_ADMIN_USERNAME"`
	AdminPassword string `yaml:"FS_ADMIN_PASSWORD"`
	WebUsername   string `yaml:"FS_WEB_USERNAME"`
	WebPassword   string `yaml:"FS_WEB_PASSWORD"`

	// VerifyTLS enables certificate verification (appliances usually
	// present self-signed certificates)
	VerifyTLS bool `yaml:"FS_VERIFY_TLS,omitempty"`

	// RequestInterval paces API calls; nil means DefaultRequestInterval,
	// 0 disables pacing. Plain numbers are seconds.
	RequestInterval *Duration `yaml:"FS_REQUEST_INTERVAL,omitempty" validate:"omitempty,min=0"`

	// BackupRetention is the number of snapshots kept per folder (0 keeps all)
	BackupRetention int `yaml:"FS_BACKUP_RETENTION,omitempty" validate:"min=0"`

	// Workspace holds the backups, segments and hosts folders and the log
	// file; empty means the folder of the configuration file
	Workspace string `yaml:"FS_WORKSPACE,omitempty"`
}

// NewSettings creates empty settings with default values
func NewSettings() *Settings {
	return &Settings{}
}

// Interval returns the effective request interval
func (s *Settings) Interval() time.Duration {
	if s.RequestInterval == nil {
		return DefaultRequestInterval
	}
	return time.Duration(*s.RequestInterval)
}

// Function selects the API a command needs credentials for
type Function string

const (
	// Admin is the Admin API (segments)
	Admin Function = "admin"
	// Web is the Web API (hosts)
	Web Function = "web"
)

// Field is one settings key that a function requires
type Field struct {
	Key    string // YAML key, e.g. FS_ADMIN_USERNAME
	Rule   string // validator tag applied to the value
	Secret bool   // prompt without echo

	value func(*Settings) *string
}

// Value returns the current value of the field in s
func (f Field) Value(s *Settings) string {
	return *f.value(s)
}

// Set stores v as the field's value in s
func (f Field) Set(s *Settings, v string) {
	*f.value(s) = v
}

var (
	urlField = Field{Key: "FS_URL", Rule: "required,url", value: func(s *Settings) *string { return &s.URL }}

	adminFields = []Field{
		{Key: "FS_ADMIN_USERNAME", Rule: "required", value: func(s *Settings) *string { return &s.AdminUsername }},
		{Key: "FS_ADMIN_PASSWORD", Rule: "required", Secret: true, value: func(s *Settings) *string { return &s.AdminPassword }},
	}

	webFields = []Field{
		{Key: "FS_WEB_USERNAME", Rule: "required", value: func(s *Settings) *string { return &s.WebUsername }},
		{Key: "FS_WEB_PASSWORD", Rule: "required", Secret: true, value: func(s *Settings) *string { return &s.WebPassword }},
	}
)

// RequiredFields lists the keys a function needs, FS_URL first
func RequiredFields(fn Function) []Field {
	fields := []Field{urlField}
	switch fn {
	case Admin:
		fields = append(fields, adminFields...)
	case Web:
		fields = append(fields, webFields...)
	}
	return fields
}

// MissingFields returns the required fields of fn that are empty in s
func (s *Settings) MissingFields(fn Function) []Field {
	var missing []Field
	for _, f := range RequiredFields(fn) {
		if f.Value(s) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
