package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	BackendMemory    = "memory"
	BackendRTDB      = "rtdb"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

type Config struct {
	Port    string `validate:"required,numeric"`
	Env     string `validate:"oneof=development staging production"`
	AppName string

	LogLevel  string
	LogFormat string

	StoreBackend string `validate:"oneof=memory rtdb firestore postgres"`

	RTDBURL          string `validate:"required_if=StoreBackend rtdb"`
	RTDBAuth         string
	RTDBPollInterval time.Duration `validate:"gte=0"`
	RTDBRateLimit    float64       `validate:"gte=0"`

	FirestoreProject string `validate:"required_if=StoreBackend firestore"`

	DBDSN          string        `validate:"required_if=StoreBackend postgres"`
	DBPollInterval time.Duration `validate:"gte=0"`

	IdentityURL    string `validate:"omitempty,url"`
	IdentityAPIKey string
	JWTSecret      string

	FCMProject         string
	FCMCredentialsFile string

	HTTPTimeout time.Duration `validate:"gte=0"`
}

var validate = validator.New()

// Load lee la configuración del entorno del proceso.
func Load() (Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv arma la configuración con getenv y la valida.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Port:    get("PORT", "8080"),
		Env:     get("APP_ENV", "development"),
		AppName: get("APP_NAME", "meditrack"),

		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "text"),

		StoreBackend: strings.ToLower(get("STORE_BACKEND", BackendMemory)),

		RTDBURL:  get("RTDB_URL", ""),
		RTDBAuth: get("RTDB_AUTH", ""),

		FirestoreProject: get("FIRESTORE_PROJECT", ""),
		DBDSN:            get("DB_DSN", ""),

		IdentityURL:    get("IDENTITY_URL", ""),
		IdentityAPIKey: get("IDENTITY_API_KEY", ""),
		JWTSecret:      get("JWT_SECRET", ""),

		FCMProject:         get("FCM_PROJECT", ""),
		FCMCredentialsFile: get("FCM_CREDENTIALS_FILE", ""),
	}

	var err error
	if cfg.RTDBPollInterval, err = duration(get("RTDB_POLL_INTERVAL", "5s")); err != nil {
		return Config{}, fmt.Errorf("RTDB_POLL_INTERVAL: %w", err)
	}
	if cfg.DBPollInterval, err = duration(get("DB_POLL_INTERVAL", "3s")); err != nil {
		return Config{}, fmt.Errorf("DB_POLL_INTERVAL: %w", err)
	}
	if cfg.HTTPTimeout, err = duration(get("HTTP_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("HTTP_TIMEOUT: %w", err)
	}
	if cfg.RTDBRateLimit, err = strconv.ParseFloat(get("RTDB_RATE_LIMIT", "0"), 64); err != nil {
		return Config{}, fmt.Errorf("RTDB_RATE_LIMIT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DevMode: sin identity provider ni secreto JWT se acepta X-Debug-User-ID.
func (c Config) DevMode() bool {
	return c.IdentityAPIKey == "" && c.JWTSecret == ""
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// duration acepta "5s" o segundos sueltos ("5").
func duration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
