package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/worklog/internal/export"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "2006-01-02 15:04", cfg.Timestamp.Layout)
	assert.Equal(t, "02/01/2006", cfg.Display.DateFormat)
	assert.Equal(t, "15:04", cfg.Display.TimeFormat)
	assert.Equal(t, 7, cfg.Report.EndOfMonthThreshold)
	assert.Equal(t, 1, cfg.Report.ScheduleDay)
	assert.Equal(t, export.FormatCSV, cfg.ReportFormat())
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "Work hours ", cfg.Mail.SubjectPrefix)
	assert.Equal(t, 30*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, 10*time.Second, cfg.DB.Timeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.False(t, cfg.MailEnabled())

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".worklog", "worklog.db"), cfg.DB.Path)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
db:
  path: /tmp/wl.db
report:
  format: xlsx
  end_of_month_threshold: 3
  schedule_time: "07:15"
mail:
  host: smtp.example.com
  port: 2525
  from: me@example.com
  recipient: boss@example.com
  timeout: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/wl.db", cfg.DB.Path)
	assert.Equal(t, export.FormatXLSX, cfg.ReportFormat())
	assert.Equal(t, 3, cfg.Report.EndOfMonthThreshold)
	assert.True(t, cfg.MailEnabled())

	smtp := cfg.SMTP()
	assert.Equal(t, "smtp.example.com", smtp.Host)
	assert.Equal(t, 2525, smtp.Port)
	assert.Equal(t, 5*time.Second, smtp.Timeout)

	clock, err := cfg.ScheduleClock()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour+15*time.Minute, clock)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WORKLOG_REPORT_END_OF_MONTH_THRESHOLD", "5")
	t.Setenv("WORKLOG_MAIL_RECIPIENT", "env@example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Report.EndOfMonthThreshold)
	assert.Equal(t, "env@example.com", cfg.Mail.Recipient)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"threshold too high", "report:\n  end_of_month_threshold: 8\n", "end_of_month_threshold"},
		{"threshold zero", "report:\n  end_of_month_threshold: 0\n", "end_of_month_threshold"},
		{"schedule day", "report:\n  schedule_day: 31\n", "schedule_day"},
		{"schedule time", "report:\n  schedule_time: noon\n", "schedule_time"},
		{"format", "report:\n  format: pdf\n", "report.format"},
		{"layout", "timestamp:\n  layout: hello\n", "timestamp.layout"},
		{"log format", "log:\n  format: xml\n", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "report: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestCheckLayout(t *testing.T) {
	assert.NoError(t, checkLayout("2006-01-02 15:04"))
	assert.NoError(t, checkLayout("02/01/2006 15:04:05"))
	assert.Error(t, checkLayout(""))
	assert.Error(t, checkLayout("15:04"))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x.db"), expandHome("~/x.db"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
	assert.Equal(t, "", expandHome(""))
}
