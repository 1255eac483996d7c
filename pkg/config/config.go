package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	Session   SessionConfig
	HTTP      HTTPConfig
	Admin     AdminConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Metrics   MetricsConfig
	Storage   StorageConfig
	Log       LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SessionConfig firma y duración del token de sesión.
type SessionConfig struct {
	Secret   string
	TTLHours int
	Issuer   string
}

// TTL duración de la sesión.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AdminConfig credenciales del administrador inicial. Solo se usan si no existe ninguno.
type AdminConfig struct {
	Email    string
	Password string
}

// RedisConfig conexión opcional para la revocación de sesiones.
type RedisConfig struct {
	URL string
}

// SchedulerConfig intervalos de los jobs en segundo plano.
type SchedulerConfig struct {
	EmailDrainInterval time.Duration
	TimerSweepInterval time.Duration
	EmailDrainBatch    int
}

// MetricsConfig prefijo de las métricas Prometheus.
type MetricsConfig struct {
	Namespace string
}

// StorageConfig selecciona el backend: "postgres" o "memory".
type StorageConfig struct {
	Driver string
}

// LogConfig nivel y formato del logger.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SESSION_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "kinetic"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "kinetic"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
		},
		Session: SessionConfig{
			Secret:   getString(v, "SESSION_SECRET", ""),
			TTLHours: getInt(v, "SESSION_TTL_HOURS", 24),
			Issuer:   getString(v, "SESSION_ISSUER", "kinetic"),
		},
		HTTP: HTTPConfig{
			Host:         getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:         getInt(v, "HTTP_PORT", 8080),
			ReadTimeout:  getDuration(v, "HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration(v, "HTTP_WRITE_TIMEOUT", 10*time.Second),
		},
		Admin: AdminConfig{
			Email:    getString(v, "KINETIC_ADMIN_EMAIL", "admin@kinetic.local"),
			Password: getString(v, "KINETIC_ADMIN_PASSWORD", "ChangeMe123!"),
		},
		Redis: RedisConfig{
			URL: getString(v, "REDIS_URL", ""),
		},
		Scheduler: SchedulerConfig{
			EmailDrainInterval: getDuration(v, "EMAIL_DRAIN_INTERVAL", time.Minute),
			TimerSweepInterval: getDuration(v, "TIMER_SWEEP_INTERVAL", 15*time.Minute),
			EmailDrainBatch:    getInt(v, "EMAIL_DRAIN_BATCH", 50),
		},
		Metrics: MetricsConfig{
			Namespace: getString(v, "METRICS_NAMESPACE", "kinetic"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString(v, "STORAGE_DRIVER", "postgres")),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	if cfg.Session.Secret == "" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("config: SESSION_SECRET es obligatorio en production")
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = "kinetic-development-secret"
	}
	if cfg.Storage.Driver != "postgres" && cfg.Storage.Driver != "memory" {
		return nil, fmt.Errorf("config: STORAGE_DRIVER inválido %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getDuration acepta "90s", "5m" o un número entero de segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
