package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "daily-scholar/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ListingConfig holds settings for the remote listing client.
type ListingConfig struct {
	HTTPConfig `yaml:",inline"`

	// Category is the subject category queried (default "cs.AI").
	Category string `json:"category" yaml:"category"`

	// PageSize is the number of records requested per listing page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// PageDelay is the minimum interval between listing pages (default 3s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// MaxRetries is the number of retries per page on transient failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// WindowConfig holds settings for the collection-window resolver.
type WindowConfig struct {
	// MaxPull is the hard cap on records inspected per run (default 200).
	MaxPull int `json:"max_pull" yaml:"max_pull"`

	// FallbackCount is the number of most-recent records returned when the
	// exact acceptance window is empty (default 20).
	FallbackCount int `json:"fallback_count" yaml:"fallback_count"`

	// Margin widens the fetch interval on the early side to tolerate
	// listing-side indexing skew (default 24h). It never affects final
	// inclusion.
	Margin time.Duration `json:"margin" yaml:"margin"`
}

// ScorerKind selects the quality scoring function.
type ScorerKind string

const (
	// ScorerGate is the simple completeness-gate score.
	ScorerGate ScorerKind = "gate"

	// ScorerComposite is the weighted author/paper/time/content score.
	ScorerComposite ScorerKind = "composite"
)

// RankConfig holds settings for the quality ranker.
type RankConfig struct {
	// TopN is the number of top-ranked papers kept for analysis (default 10,
	// minimum 1).
	TopN int `json:"top_n" yaml:"top_n"`

	// Scorer selects the scoring function: gate or composite.
	Scorer ScorerKind `json:"scorer" yaml:"scorer"`
}

// AnalyzerConfig holds settings for the external analysis backend.
type AnalyzerConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the authentication key for the analysis API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ChatModel handles translation (default "deepseek-chat").
	ChatModel string `json:"chat_model" yaml:"chat_model"`

	// ReasonerModel handles classification and summarization
	// (default "deepseek-reasoner").
	ReasonerModel string `json:"reasoner_model" yaml:"reasoner_model"`

	// MaxRetries is the number of retry attempts per API call (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the analysis cache store.
type CacheConfig struct {
	// Dir is the cache directory, one file per fingerprint (default "data/cache").
	Dir string `json:"dir" yaml:"dir"`
}

// ReportConfig holds settings for artifact assembly.
type ReportConfig struct {
	// DataDir is the base directory for artifacts; rankings/, analysis/,
	// and reports/ live under it (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// MailConfig holds settings for report dispatch.
type MailConfig struct {
	// Host is the SMTP server host (default "smtp.gmail.com").
	Host string `json:"host" yaml:"host"`

	// Port is the SMTP server port (default 587).
	Port int `json:"port" yaml:"port"`

	// Username is the sender address.
	Username string `json:"username,omitempty" yaml:"username,omitempty"`

	// Password is the SMTP password or app password.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// SubjectPrefix is prepended to the report subject
	// (default "[DailyAI Scholar] ").
	SubjectPrefix string `json:"subject_prefix" yaml:"subject_prefix"`

	// RecipientsFile is the path to the recipient list, one address per
	// line, # comments allowed (default "config/email_list.txt").
	RecipientsFile string `json:"recipients_file" yaml:"recipients_file"`
}

// HistoryConfig holds settings for the run ledger.
type HistoryConfig struct {
	// Dir is the directory holding the ledger database (default "data/index").
	Dir string `json:"dir" yaml:"dir"`
}

// LoggingConfig holds settings for the run log.
type LoggingConfig struct {
	// Level is the minimum log level (default "info").
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json" (default "console").
	Format string `json:"format" yaml:"format"`

	// Output is "stderr" or "stdout" (default "stderr").
	Output string `json:"output" yaml:"output"`
}

// PipelineConfig groups all stage configurations for one daily cycle.
type PipelineConfig struct {
	Listing  ListingConfig  `json:"listing" yaml:"listing"`
	Window   WindowConfig   `json:"window" yaml:"window"`
	Rank     RankConfig     `json:"rank" yaml:"rank"`
	Analyzer AnalyzerConfig `json:"analyzer" yaml:"analyzer"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Mail     MailConfig     `json:"mail" yaml:"mail"`
	History  HistoryConfig  `json:"history" yaml:"history"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}
