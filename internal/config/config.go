package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/trip-claim/internal/model"
)

// DefaultPath is where the keyword configuration is looked up when no path
// is given.
const DefaultPath = "config.yaml"

// Config holds the full application configuration.
type Config struct {
	HomeKeywords []string       `yaml:"home_address_keywords" mapstructure:"home_address_keywords"`
	WorkKeywords []string       `yaml:"work_address_keywords" mapstructure:"work_address_keywords"`
	Email        EmailConfig    `yaml:"email" mapstructure:"email"`
	Paths        PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Upstream     UpstreamConfig `yaml:"upstream" mapstructure:"upstream"`
	Download     DownloadConfig `yaml:"download" mapstructure:"download"`
	Report       ReportConfig   `yaml:"report" mapstructure:"report"`
	Delivery     DeliveryConfig `yaml:"delivery" mapstructure:"delivery"`
	Log          LogConfig      `yaml:"log" mapstructure:"log"`
}

// EmailConfig configures optional delivery of the packaged month by SMTP.
// Subject and Body accept {month_year}, {total_amount} and {trip_count}.
type EmailConfig struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
	Recipient    string `yaml:"recipient" mapstructure:"recipient"`
	Sender       string `yaml:"sender" mapstructure:"sender"`
	SMTPHost     string `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port" mapstructure:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username" mapstructure:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password" mapstructure:"smtp_password"`
	SMTPSSL      bool   `yaml:"smtp_ssl" mapstructure:"smtp_ssl"`
	Subject      string `yaml:"subject" mapstructure:"subject"`
	Body         string `yaml:"body" mapstructure:"body"`
}

// Recipients splits Recipient on commas.
func (e EmailConfig) Recipients() []string {
	var out []string
	for _, r := range strings.Split(e.Recipient, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// PathsConfig locates the run's inputs and outputs.
type PathsConfig struct {
	TokenFile string `yaml:"token_file" mapstructure:"token_file"`
	Template  string `yaml:"template" mapstructure:"template"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// UpstreamConfig configures the rider API client.
type UpstreamConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	PauseMs     int    `yaml:"pause_ms" mapstructure:"pause_ms"`
	PageLimit   int    `yaml:"page_limit" mapstructure:"page_limit"`
}

// DownloadConfig is the receipt download retry policy.
type DownloadConfig struct {
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffMs   int `yaml:"backoff_ms" mapstructure:"backoff_ms"`
}

// ReportConfig controls the claim form and merged receipt document.
type ReportConfig struct {
	Sheet         string       `yaml:"sheet" mapstructure:"sheet"`
	StartRow      int          `yaml:"start_row" mapstructure:"start_row"`
	PaymentMethod string       `yaml:"payment_method" mapstructure:"payment_method"`
	CoverPage     bool         `yaml:"cover_page" mapstructure:"cover_page"`
	Labels        LabelsConfig `yaml:"labels" mapstructure:"labels"`
}

// LabelsConfig holds the text written for each classified purpose.
type LabelsConfig struct {
	ReturnFromWork string `yaml:"return_from_work" mapstructure:"return_from_work"`
	GoingToWork    string `yaml:"going_to_work" mapstructure:"going_to_work"`
}

// DeliveryConfig controls packaging of the output folder.
type DeliveryConfig struct {
	Zip bool `yaml:"zip" mapstructure:"zip"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Keywords returns the classification keyword lists.
func (c *Config) Keywords() model.KeywordSet {
	return model.KeywordSet{Home: c.HomeKeywords, Work: c.WorkKeywords}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("paths.token_file", "token.txt")
	v.SetDefault("paths.template", "Private Taxi Claim Form.xlsx")
	v.SetDefault("paths.output_dir", "output")
	v.SetDefault("upstream.base_url", "https://riders.uber.com")
	v.SetDefault("upstream.user_agent", "PostmanRuntime/7.45.0")
	v.SetDefault("upstream.timeout_secs", 30)
	v.SetDefault("upstream.pause_ms", 500)
	v.SetDefault("upstream.page_limit", 60)
	v.SetDefault("download.max_attempts", 3)
	v.SetDefault("download.backoff_ms", 2000)
	v.SetDefault("report.sheet", "Claim Form")
	v.SetDefault("report.start_row", 8)
	v.SetDefault("report.payment_method", "App Wallet")
	v.SetDefault("report.cover_page", false)
	v.SetDefault("report.labels.return_from_work", "Return from work")
	v.SetDefault("report.labels.going_to_work", "Going to work")
	v.SetDefault("delivery.zip", true)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.recipient", "")
	v.SetDefault("email.sender", "")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_username", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.smtp_ssl", false)
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.subject", "Trip claim {month_year}")
	v.SetDefault("email.body", "Attached are {trip_count} trips for {month_year}, total {total_amount}.")
}

// Load reads the configuration file at path (DefaultPath when empty) and
// the TRIPCLAIM_* environment. A missing file is replaced by a documented
// default and ErrConfigMissing is returned so the user can edit it first.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, eris.Wrap(err, "config: stat file")
		}
		if werr := WriteDefault(path); werr != nil {
			return nil, werr
		}
		return nil, eris.Wrapf(model.ErrConfigMissing, "created default config at %s, edit it and run again", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("TRIPCLAIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrap(err, "config: read file")
	}

	for _, key := range []string{"home_address_keywords", "work_address_keywords"} {
		if !v.IsSet(key) {
			return nil, eris.Wrapf(model.ErrConfigInvalid, "%s is required in %s", key, path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail late in the run.
func (c *Config) Validate() error {
	var problems []string

	if c.Report.StartRow < 1 {
		problems = append(problems, "report.start_row must be >= 1")
	}
	if c.Report.Sheet == "" {
		problems = append(problems, "report.sheet is required")
	}
	if c.Email.Enabled {
		if len(c.Email.Recipients()) == 0 {
			problems = append(problems, "email.recipient is required when email is enabled")
		}
		if c.Email.Sender == "" {
			problems = append(problems, "email.sender is required when email is enabled")
		}
		if c.Email.SMTPHost == "" {
			problems = append(problems, "email.smtp_host is required when email is enabled")
		}
		if !c.Delivery.Zip {
			problems = append(problems, "delivery.zip must be on when email is enabled")
		}
	}

	if len(problems) > 0 {
		return eris.Wrap(model.ErrConfigInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// LoadCredential reads the session cookie from path. The file holds one
// opaque string that is sent verbatim, so only surrounding whitespace is
// removed.
func LoadCredential(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", eris.Wrapf(model.ErrAuthMissing, "token file %s not found", path)
		}
		return "", eris.Wrapf(err, "config: read token file %s", path)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", eris.Wrapf(model.ErrAuthMissing, "token file %s is empty", path)
	}
	return token, nil
}

// InitLogger initializes the global zap logger. Extra fields are attached
// to every entry.
func InitLogger(cfg LogConfig, fields ...zap.Field) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger.With(fields...))

	return nil
}
