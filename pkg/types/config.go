package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-reader/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the document fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxRetries is the number of retries on HTTP 429. Other failures are
	// never retried.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// TempDir is where artifacts are written. Empty means os.TempDir().
	TempDir string `json:"temp_dir,omitempty" yaml:"temp_dir,omitempty"`

	// Metadata enables scraping of the arXiv abstract page for history records.
	Metadata bool `json:"metadata" yaml:"metadata"`
}

// ExtractBackend identifies the PDF text extraction tool.
type ExtractBackend string

const (
	BackendPDF        ExtractBackend = "pdf"
	BackendMarkitdown ExtractBackend = "markitdown"
)

// ExtractConfig holds settings for the text extractor.
type ExtractConfig struct {
	// Backend selects the extraction tool: pdf or markitdown.
	Backend ExtractBackend `json:"backend" yaml:"backend"`

	// MarkitdownImage is the container image used by the markitdown backend.
	MarkitdownImage string `json:"markitdown_image" yaml:"markitdown_image"`
}

// ProviderConfig holds the credentials and model of one LLM provider.
type ProviderConfig struct {
	// APIKey is the authentication key. Missing keys surface on first use.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the model identifier (e.g. "gpt-4.1-2025-04-14").
	Model string `json:"model" yaml:"model"`

	// BaseURL is the OpenAI-compatible API root.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// LLMConfig holds settings for the streaming client.
type LLMConfig struct {
	// Provider selects "openai" or "ali".
	Provider string `json:"provider" yaml:"provider"`

	// MaxTokens caps the generated answer (default 2048).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	OpenAI ProviderConfig `json:"openai" yaml:"openai"`
	Ali    ProviderConfig `json:"ali" yaml:"ali"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// AllowedOrigins lists CORS origins.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// HistoryConfig holds settings for the summary history database.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Config groups all component configurations.
type Config struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Extract ExtractConfig `json:"extract" yaml:"extract"`
	LLM     LLMConfig     `json:"llm" yaml:"llm"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	History HistoryConfig `json:"history" yaml:"history"`
	Log     LogConfig     `json:"log" yaml:"log"`
}
