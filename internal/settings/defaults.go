package settings

import "time"

const (
	DefaultConfigPath = "config/settings.yaml"
	DefaultRunsDir    = "runs"
	DefaultLanguage   = "en"

	DefaultValidateDebounce = 500 * time.Millisecond
	DefaultAutoTrimDelay    = 2500 * time.Millisecond
	DefaultSampleInterval   = 100 * time.Millisecond
	DefaultSettleDelay      = 1500 * time.Millisecond

	DefaultPreviewTimeout    = 10 * time.Second
	DefaultRequestsPerSecond = 2.0
	DefaultMaxRetries        = 3
	DefaultUserAgent         = "Mozilla/5.0 (compatible; storefront-wizard/1.0)"
	DefaultMaxMarkdownChars  = 12000

	ProviderAnthropic      = "anthropic"
	ProviderGemini         = "gemini"
	DefaultProvider        = ProviderAnthropic
	DefaultAnthropicModel  = "claude-sonnet-4-20250514"
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultMaxTokens       = 4000
	DefaultTemperature     = 0.4
	DefaultAnthropicKeyEnv = "ANTHROPIC_API_KEY"
	DefaultGeminiKeyEnv    = "GEMINI_API_KEY"
	DefaultLogLevel        = "info"
)

func Defaults() Settings {
	return Settings{
		Language: DefaultLanguage,
		RunsDir:  DefaultRunsDir,
		Timing: Timing{
			ValidateDebounce: DefaultValidateDebounce,
			AutoTrimDelay:    DefaultAutoTrimDelay,
			SampleInterval:   DefaultSampleInterval,
			SettleDelay:      DefaultSettleDelay,
		},
		Preview: Preview{
			Timeout:           DefaultPreviewTimeout,
			RequestsPerSecond: DefaultRequestsPerSecond,
			MaxRetries:        DefaultMaxRetries,
			UserAgent:         DefaultUserAgent,
			MaxMarkdownChars:  DefaultMaxMarkdownChars,
		},
		Generator: Generator{
			Provider:    DefaultProvider,
			Model:       DefaultAnthropicModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
			APIKeyEnv:   DefaultAnthropicKeyEnv,
		},
		Log: Log{Level: DefaultLogLevel},
	}
}
