package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
dbname = "badcourt"
user = "app"

[scheduler]
pending_grace_period = "15m"
reaper_poll_interval = "2s"
reaper_delete_expired = true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileOverDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.PendingGracePeriod)
	assert.Equal(t, 2*time.Second, cfg.Scheduler.ReaperPollInterval)
	assert.True(t, cfg.Scheduler.ReaperDeleteExpired)

	// не заданы в файле
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.StateAdvanceInterval)
	assert.Equal(t, 60, cfg.Booking.DefaultSlotMinutes)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("BADCOURT_DATABASE_HOST", "pg.internal")
	t.Setenv("BADCOURT_SCHEDULER_PENDING_GRACE_PERIOD", "30m")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.PendingGracePeriod)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "badcourt", cfg.Database.DBName)
}

func TestValidate_RejectsNonPositiveIntervals(t *testing.T) {
	cfg := Default()
	cfg.Scheduler.ReaperPollInterval = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.RabbitMQ.Enabled = true
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "n"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
