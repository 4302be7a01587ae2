package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

func init() {
	viper.SetDefault("listing.category", "cs.AI")
	viper.SetDefault("listing.page_size", 100)
	viper.SetDefault("listing.page_delay", 3*time.Second)
	viper.SetDefault("listing.max_retries", 3)
	viper.SetDefault("listing.timeout", 30*time.Second)
	viper.SetDefault("listing.user_agent", "daily-scholar/0.1")

	viper.SetDefault("window.max_pull", 200)
	viper.SetDefault("window.fallback_count", 20)
	viper.SetDefault("window.margin", 24*time.Hour)

	viper.SetDefault("rank.top_n", 10)
	viper.SetDefault("rank.scorer", string(types.ScorerComposite))

	viper.SetDefault("analyzer.chat_model", "deepseek-chat")
	viper.SetDefault("analyzer.reasoner_model", "deepseek-reasoner")
	viper.SetDefault("analyzer.max_retries", 3)
	viper.SetDefault("analyzer.timeout", 120*time.Second)

	viper.SetDefault("cache.dir", "data/cache")
	viper.SetDefault("report.data_dir", "data")

	viper.SetDefault("mail.host", "smtp.gmail.com")
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("mail.subject_prefix", "[DailyAI Scholar] ")
	viper.SetDefault("mail.recipients_file", "config/email_list.txt")

	viper.SetDefault("history.dir", "data/index")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("logging.output", "stderr")
}

// loadConfig materializes the pipeline configuration from viper. Secrets
// come from the environment (DAILY_SCHOLAR_ANALYZER_API_KEY and the mail
// credentials), never from the config file by default.
func loadConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Listing: types.ListingConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("listing.timeout"),
				UserAgent: viper.GetString("listing.user_agent"),
			},
			Category:   viper.GetString("listing.category"),
			PageSize:   viper.GetInt("listing.page_size"),
			PageDelay:  viper.GetDuration("listing.page_delay"),
			MaxRetries: viper.GetInt("listing.max_retries"),
		},
		Window: types.WindowConfig{
			MaxPull:       viper.GetInt("window.max_pull"),
			FallbackCount: viper.GetInt("window.fallback_count"),
			Margin:        viper.GetDuration("window.margin"),
		},
		Rank: types.RankConfig{
			TopN:   viper.GetInt("rank.top_n"),
			Scorer: types.ScorerKind(viper.GetString("rank.scorer")),
		},
		Analyzer: types.AnalyzerConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout: viper.GetDuration("analyzer.timeout"),
			},
			APIKey:        viper.GetString("analyzer.api_key"),
			ChatModel:     viper.GetString("analyzer.chat_model"),
			ReasonerModel: viper.GetString("analyzer.reasoner_model"),
			MaxRetries:    viper.GetInt("analyzer.max_retries"),
		},
		Cache:  types.CacheConfig{Dir: viper.GetString("cache.dir")},
		Report: types.ReportConfig{DataDir: viper.GetString("report.data_dir")},
		Mail: types.MailConfig{
			Host:           viper.GetString("mail.host"),
			Port:           viper.GetInt("mail.port"),
			Username:       viper.GetString("mail.username"),
			Password:       viper.GetString("mail.password"),
			SubjectPrefix:  viper.GetString("mail.subject_prefix"),
			RecipientsFile: viper.GetString("mail.recipients_file"),
		},
		History: types.HistoryConfig{Dir: viper.GetString("history.dir")},
		Logging: types.LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
			Output: viper.GetString("logging.output"),
		},
	}
}
