package models

import "time"

// Config represents the application configuration
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Gmail      GmailConfig      `yaml:"gmail"`
	Imap       ImapConfig       `yaml:"imap"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	EventsDir  string           `yaml:"eventsDir"`
}

// SourceConfig selects and paces the email source
type SourceConfig struct {
	Type        string        `yaml:"type"` // "gmail" or "imap"
	RefreshTime time.Duration `yaml:"refreshTime"`
	MaxMessages int           `yaml:"maxMessages"`
}

// GmailConfig represents Gmail API source configuration
type GmailConfig struct {
	CredentialsFile string `yaml:"credentialsFile"`
	TokenFile       string `yaml:"tokenFile"`
	Query           string `yaml:"query"`
}

// ImapConfig represents IMAP source configuration
type ImapConfig struct {
	Server   string        `yaml:"server"`
	Login    string        `yaml:"login"`
	Password string        `yaml:"password"`
	MailBox  string        `yaml:"mailbox"`
	Window   time.Duration `yaml:"window"`
}

// ExtractionConfig represents the LLM extraction service configuration
type ExtractionConfig struct {
	APIKey   string `yaml:"apiKey"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"baseURL"`
	Sentinel string `yaml:"sentinel"`
}

// CalendarConfig represents the fixed source timezone applied to all
// extracted event times
type CalendarConfig struct {
	Timezone       string `yaml:"timezone"` // IANA name, e.g. "Asia/Tokyo"
	UTCOffsetHours int    `yaml:"utcOffsetHours"`
	Abbreviation   string `yaml:"abbreviation"` // e.g. "JST"
}
