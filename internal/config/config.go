package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/phillipc0/cubing-competition-api/internal/domain/wcif"
	"github.com/phillipc0/cubing-competition-api/internal/platform/logging"
	"github.com/phillipc0/cubing-competition-api/internal/platform/resilience"
	"golang.org/x/text/language"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool

	CacheEnabled bool
	CacheTTL     time.Duration
	LiveCacheTTL time.Duration

	WCAAPIBaseURL   string
	WCAOriginURL    string
	WCATimeout      time.Duration
	WCAMaxRetries   int
	WCARetryBackoff time.Duration
	WCACircuit      resilience.CircuitBreakerConfig

	WCALiveURL          string
	WCALiveTimeout      time.Duration
	WCALiveMaxRetries   int
	WCALiveRetryBackoff time.Duration
	WCALiveCircuit      resilience.CircuitBreakerConfig

	CompetitionsPerPage   int
	ScheduleTimezone      *time.Location
	ScheduleSortWithinDay bool
	GroupsOrder           wcif.GroupOrder
	GroupsRoles           wcif.RoleFilter
	CollationLanguage     language.Tag

	PrefetchEnabled bool
	PrefetchWorkers int
	PrefetchLimit   int
	PrefetchTimeout time.Duration

	LiveWatchEnabled bool
	LivePollInterval time.Duration
	LiveWatchIdle    time.Duration
	LiveWatchWorkers int

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        strings.TrimSpace(getEnv("APP_SERVICE_NAME", "cubing-competition-api")),
		ServiceVersion:     strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:           strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		WCAAPIBaseURL:      strings.TrimSpace(getEnv("WCA_API_BASE_URL", "https://api.worldcubeassociation.org")),
		WCAOriginURL:       strings.TrimSpace(getEnv("WCA_ORIGIN_URL", "https://www.worldcubeassociation.org/api/v0")),
		WCALiveURL:         strings.TrimSpace(getEnv("WCA_LIVE_URL", "https://live.worldcubeassociation.org/api")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	level, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	if cfg.SwaggerEnabled, err = getEnvAsBool("SWAGGER_ENABLED", swaggerDefault); err != nil {
		return Config{}, err
	}

	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getEnvAsPositiveDuration("APP_SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	if err := loadCache(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadUpstreams(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadPresentation(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadWorkers(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadCache(cfg *Config) error {
	var err error
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "5m"); err != nil {
		return err
	}
	if cfg.LiveCacheTTL, err = getEnvAsPositiveDuration("LIVE_CACHE_TTL", "30s"); err != nil {
		return err
	}
	return nil
}

func loadUpstreams(cfg *Config) error {
	var err error
	if cfg.WCATimeout, err = getEnvAsPositiveDuration("WCA_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.WCAMaxRetries, err = getEnvAsInt("WCA_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse WCA_MAX_RETRIES: %w", err)
	}
	if cfg.WCAMaxRetries < 0 {
		return fmt.Errorf("WCA_MAX_RETRIES must be >= 0")
	}
	if cfg.WCARetryBackoff, err = getEnvAsPositiveDuration("WCA_RETRY_BACKOFF", "500ms"); err != nil {
		return err
	}
	if cfg.WCACircuit, err = loadCircuit("WCA"); err != nil {
		return err
	}

	if cfg.WCALiveTimeout, err = getEnvAsPositiveDuration("WCA_LIVE_TIMEOUT", "8s"); err != nil {
		return err
	}
	if cfg.WCALiveMaxRetries, err = getEnvAsInt("WCA_LIVE_MAX_RETRIES", 1); err != nil {
		return fmt.Errorf("parse WCA_LIVE_MAX_RETRIES: %w", err)
	}
	if cfg.WCALiveMaxRetries < 0 {
		return fmt.Errorf("WCA_LIVE_MAX_RETRIES must be >= 0")
	}
	if cfg.WCALiveRetryBackoff, err = getEnvAsPositiveDuration("WCA_LIVE_RETRY_BACKOFF", "500ms"); err != nil {
		return err
	}
	if cfg.WCALiveCircuit, err = loadCircuit("WCA_LIVE"); err != nil {
		return err
	}
	return nil
}

// loadCircuit reads <PREFIX>_CIRCUIT_ENABLED, _FAILURE_COUNT, _OPEN_TIMEOUT and _HALF_OPEN_MAX_REQ.
func loadCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	var (
		out resilience.CircuitBreakerConfig
		err error
	)
	if out.Enabled, err = getEnvAsBool(prefix+"_CIRCUIT_ENABLED", "true"); err != nil {
		return out, err
	}
	if out.FailureThreshold, err = getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if out.FailureThreshold < 1 {
		return out, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	if out.OpenTimeout, err = getEnvAsPositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return out, err
	}
	if out.HalfOpenMaxReq, err = getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if out.HalfOpenMaxReq < 1 {
		return out, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}
	return out, nil
}

func loadPresentation(cfg *Config) error {
	var err error
	if cfg.CompetitionsPerPage, err = getEnvAsInt("COMPETITIONS_PER_PAGE", 20); err != nil {
		return fmt.Errorf("parse COMPETITIONS_PER_PAGE: %w", err)
	}
	if cfg.CompetitionsPerPage < 1 || cfg.CompetitionsPerPage > 100 {
		return fmt.Errorf("COMPETITIONS_PER_PAGE must be between 1 and 100")
	}

	tz := strings.TrimSpace(getEnv("SCHEDULE_TIMEZONE", "Local"))
	if cfg.ScheduleTimezone, err = time.LoadLocation(tz); err != nil {
		return fmt.Errorf("parse SCHEDULE_TIMEZONE: %w", err)
	}
	if cfg.ScheduleSortWithinDay, err = getEnvAsBool("SCHEDULE_SORT_WITHIN_DAY", "false"); err != nil {
		return err
	}
	if cfg.GroupsOrder, err = wcif.ParseGroupOrder(getEnv("GROUPS_ORDER", string(wcif.OrderSchedule))); err != nil {
		return fmt.Errorf("parse GROUPS_ORDER: %w", err)
	}
	if cfg.GroupsRoles, err = wcif.ParseRoleFilter(getEnv("GROUPS_ROLES", string(wcif.RolesAny))); err != nil {
		return fmt.Errorf("parse GROUPS_ROLES: %w", err)
	}
	if cfg.CollationLanguage, err = language.Parse(getEnv("COLLATION_LANGUAGE", "und")); err != nil {
		return fmt.Errorf("parse COLLATION_LANGUAGE: %w", err)
	}
	return nil
}

func loadWorkers(cfg *Config) error {
	var err error
	if cfg.PrefetchEnabled, err = getEnvAsBool("PREFETCH_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.PrefetchWorkers, err = getEnvAsInt("PREFETCH_WORKERS", 4); err != nil {
		return fmt.Errorf("parse PREFETCH_WORKERS: %w", err)
	}
	if cfg.PrefetchWorkers < 1 {
		return fmt.Errorf("PREFETCH_WORKERS must be >= 1")
	}
	if cfg.PrefetchLimit, err = getEnvAsInt("PREFETCH_LIMIT", 5); err != nil {
		return fmt.Errorf("parse PREFETCH_LIMIT: %w", err)
	}
	if cfg.PrefetchLimit < 0 {
		return fmt.Errorf("PREFETCH_LIMIT must be >= 0")
	}
	if cfg.PrefetchTimeout, err = getEnvAsPositiveDuration("PREFETCH_TIMEOUT", "20s"); err != nil {
		return err
	}

	if cfg.LiveWatchEnabled, err = getEnvAsBool("LIVE_WATCH_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.LivePollInterval, err = getEnvAsPositiveDuration("LIVE_POLL_INTERVAL", "30s"); err != nil {
		return err
	}
	if cfg.LiveWatchIdle, err = getEnvAsPositiveDuration("LIVE_WATCH_IDLE", "10m"); err != nil {
		return err
	}
	if cfg.LiveWatchWorkers, err = getEnvAsInt("LIVE_WATCH_WORKERS", 4); err != nil {
		return fmt.Errorf("parse LIVE_WATCH_WORKERS: %w", err)
	}
	if cfg.LiveWatchWorkers < 1 {
		return fmt.Errorf("LIVE_WATCH_WORKERS must be >= 1")
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return err
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
