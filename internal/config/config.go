// Package config loads worklog settings from a YAML file and WORKLOG_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alexanderramin/worklog/internal/export"
)

// Config holds the complete application configuration
type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Timestamp TimestampConfig `mapstructure:"timestamp"`
	Display   DisplayConfig   `mapstructure:"display"`
	Report    ReportConfig    `mapstructure:"report"`
	Mail      MailConfig      `mapstructure:"mail"`
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

type DBConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TimestampConfig is the layout accepted on input, in Go reference-time form.
type TimestampConfig struct {
	Layout string `mapstructure:"layout"`
}

type DisplayConfig struct {
	DateFormat string `mapstructure:"date_format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ReportConfig controls the monthly export.
//
// EndOfMonthThreshold is an ISO weekday (1..7). A report for month M takes
// M's rows with weekday <= threshold plus the previous month's rows with
// weekday > threshold. The default of 7 therefore reports M's rows only and
// never reaches into the previous month; lower it to pick up the tail of the
// previous month.
type ReportConfig struct {
	CSVPath             string `mapstructure:"csv_path"`
	Format              string `mapstructure:"format"`
	EndOfMonthThreshold int    `mapstructure:"end_of_month_threshold"`
	ScheduleDay         int    `mapstructure:"schedule_day"`
	ScheduleTime        string `mapstructure:"schedule_time"` // HH:MM, local time
}

// MailConfig defines the SMTP relay and report recipient
type MailConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	From          string        `mapstructure:"from"`
	Recipient     string        `mapstructure:"recipient"`
	SubjectPrefix string        `mapstructure:"subject_prefix"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LogConfig defines logging behavior
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text or auto
}

// DefaultPath is ~/.worklog/config.yaml, or a relative fallback when the home
// directory is unknown.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".worklog", "config.yaml")
}

// Load loads configuration from file and environment variables. A missing
// file is not an error; defaults and environment still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(expandHome(configPath))
	v.SetConfigType("yaml")
	v.SetEnvPrefix("WORKLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.DB.Path = expandHome(cfg.DB.Path)
	cfg.Report.CSVPath = expandHome(cfg.Report.CSVPath)
	cfg.Metrics.Textfile = expandHome(cfg.Metrics.Textfile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.path", "~/.worklog/worklog.db")
	v.SetDefault("db.timeout", "10s")

	v.SetDefault("timestamp.layout", "2006-01-02 15:04")

	v.SetDefault("display.date_format", "02/01/2006")
	v.SetDefault("display.time_format", "15:04")

	v.SetDefault("report.csv_path", "~/.worklog/work_hours.csv")
	v.SetDefault("report.format", string(export.FormatCSV))
	v.SetDefault("report.end_of_month_threshold", 7)
	v.SetDefault("report.schedule_day", 1)
	v.SetDefault("report.schedule_time", "08:00")

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.recipient", "")
	v.SetDefault("mail.subject_prefix", "Work hours ")
	v.SetDefault("mail.timeout", "30s")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("metrics.textfile", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
}

// Validate checks ranges and layouts that would otherwise fail late.
func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}
	if c.Report.EndOfMonthThreshold < 1 || c.Report.EndOfMonthThreshold > 7 {
		return fmt.Errorf("report.end_of_month_threshold must be 1..7, got %d", c.Report.EndOfMonthThreshold)
	}
	if c.Report.ScheduleDay < 1 || c.Report.ScheduleDay > 28 {
		return fmt.Errorf("report.schedule_day must be 1..28, got %d", c.Report.ScheduleDay)
	}
	if _, err := c.ScheduleClock(); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("report.format: %w", err)
	}
	if err := checkLayout(c.Timestamp.Layout); err != nil {
		return fmt.Errorf("timestamp.layout: %w", err)
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail port: %d", c.Mail.Port)
	}
	switch c.Log.Format {
	case "json", "text", "auto":
	default:
		return fmt.Errorf("log.format must be json, text or auto, got %q", c.Log.Format)
	}
	return nil
}

// ReportFormat is the validated report format.
func (c *Config) ReportFormat() export.Format {
	f, _ := export.ParseFormat(c.Report.Format)
	return f
}

// ReportDisplay returns the report display layouts.
func (c *Config) ReportDisplay() export.Display {
	return export.Display{DateFormat: c.Display.DateFormat, TimeFormat: c.Display.TimeFormat}
}

// MailEnabled reports whether enough SMTP settings are present to send.
func (c *Config) MailEnabled() bool {
	return c.Mail.Host != "" && c.Mail.Recipient != "" && c.Mail.From != ""
}

// SMTP maps the mail section onto the exporter's settings.
func (c *Config) SMTP() export.SMTPConfig {
	return export.SMTPConfig{
		Host:          c.Mail.Host,
		Port:          c.Mail.Port,
		Username:      c.Mail.Username,
		Password:      c.Mail.Password,
		From:          c.Mail.From,
		Recipient:     c.Mail.Recipient,
		SubjectPrefix: c.Mail.SubjectPrefix,
		Timeout:       c.Mail.Timeout,
	}
}

// ScheduleClock parses report.schedule_time as an offset from midnight.
func (c *Config) ScheduleClock() (time.Duration, error) {
	t, err := time.Parse("15:04", c.Report.ScheduleTime)
	if err != nil {
		return 0, fmt.Errorf("report.schedule_time must be HH:MM, got %q", c.Report.ScheduleTime)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// checkLayout rejects layouts that do not round-trip a reference instant,
// which catches strings with no layout elements at all.
func checkLayout(layout string) error {
	if strings.TrimSpace(layout) == "" {
		return fmt.Errorf("layout is empty")
	}
	ref := time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)
	parsed, err := time.Parse(layout, ref.Format(layout))
	if err != nil {
		return fmt.Errorf("layout %q does not parse its own output: %w", layout, err)
	}
	if parsed.Year() != 2024 || parsed.Month() != time.March || parsed.Day() != 4 {
		return fmt.Errorf("layout %q must carry a full date", layout)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
