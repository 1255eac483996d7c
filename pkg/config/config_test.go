package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "admin@kinetic.local", cfg.Admin.Email)
	assert.Equal(t, "ChangeMe123!", cfg.Admin.Password)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
	assert.NotEmpty(t, cfg.Session.Secret, "en development se usa un secreto por defecto")
}

func TestLoad_AdminOverrides(t *testing.T) {
	t.Setenv("KINETIC_ADMIN_EMAIL", "root@acme.test")
	t.Setenv("KINETIC_ADMIN_PASSWORD", "s3cret-pass")
	t.Setenv("EMAIL_DRAIN_INTERVAL", "30")
	t.Setenv("TIMER_SWEEP_INTERVAL", "2m")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "root@acme.test", cfg.Admin.Email)
	assert.Equal(t, "s3cret-pass", cfg.Admin.Password)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.EmailDrainInterval)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.TimerSweepInterval)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "kin", Password: "p@ss/word", DBName: "kinetic", SSLMode: "disable"}
	assert.Equal(t, "postgres://kin:p%40ss%2Fword@db:5432/kinetic?sslmode=disable", c.DSN())
}
