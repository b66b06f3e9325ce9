package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	LogLevel                   logging.Level
	MetricsEnabled             bool
	ScheduleRequestTimeout     time.Duration
	ReconcileTimezone          string
	ReconcileLocation          *time.Location
	MLBBaseURL                 string
	MLBTimeout                 time.Duration
	MLBMaxRetries              int
	MLBWindowDays              int
	MLBMaxWorkers              int
	MLBCircuit                 resilience.CircuitBreakerConfig
	OddsEnabled                bool
	OddsBaseURL                string
	OddsAPIKey                 string
	OddsSport                  string
	OddsRegions                string
	OddsBookmaker              string
	OddsMarket                 string
	OddsTimeout                time.Duration
	OddsMaxRetries             int
	OddsCacheTTL               time.Duration
	OddsCacheBackend           string
	RedisAddr                  string
	RedisPassword              string
	RedisDB                    int
	OddsCircuit                resilience.CircuitBreakerConfig
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	scheduleRequestTimeout, err := time.ParseDuration(getEnv("SCHEDULE_REQUEST_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULE_REQUEST_TIMEOUT: %w", err)
	}
	if scheduleRequestTimeout <= 0 {
		return Config{}, fmt.Errorf("SCHEDULE_REQUEST_TIMEOUT must be > 0")
	}
	if writeTimeout > 0 && scheduleRequestTimeout >= writeTimeout {
		return Config{}, fmt.Errorf("SCHEDULE_REQUEST_TIMEOUT must be < APP_WRITE_TIMEOUT")
	}

	reconcileTimezone := strings.TrimSpace(getEnv("RECONCILE_TIMEZONE", "UTC"))
	reconcileLocation, err := time.LoadLocation(reconcileTimezone)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECONCILE_TIMEZONE: %w", err)
	}

	mlbTimeout, err := time.ParseDuration(getEnv("MLB_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MLB_TIMEOUT: %w", err)
	}
	if mlbTimeout <= 0 {
		return Config{}, fmt.Errorf("MLB_TIMEOUT must be > 0")
	}
	mlbMaxRetries, err := getEnvAsInt("MLB_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse MLB_MAX_RETRIES: %w", err)
	}
	if mlbMaxRetries < 0 {
		return Config{}, fmt.Errorf("MLB_MAX_RETRIES must be >= 0")
	}
	mlbWindowDays, err := getEnvAsInt("MLB_WINDOW_DAYS", 31)
	if err != nil {
		return Config{}, fmt.Errorf("parse MLB_WINDOW_DAYS: %w", err)
	}
	if mlbWindowDays <= 0 {
		return Config{}, fmt.Errorf("MLB_WINDOW_DAYS must be > 0")
	}
	mlbMaxWorkers, err := getEnvAsInt("MLB_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse MLB_MAX_WORKERS: %w", err)
	}
	if mlbMaxWorkers <= 0 {
		return Config{}, fmt.Errorf("MLB_MAX_WORKERS must be > 0")
	}
	mlbCircuit, err := loadCircuitBreaker("MLB")
	if err != nil {
		return Config{}, err
	}

	oddsAPIKey := strings.TrimSpace(getEnv("ODDS_API_KEY", ""))
	oddsEnabled, err := strconv.ParseBool(getEnv("ODDS_ENABLED", strconv.FormatBool(oddsAPIKey != "")))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_ENABLED: %w", err)
	}
	if oddsEnabled && oddsAPIKey == "" {
		return Config{}, fmt.Errorf("ODDS_API_KEY is required when ODDS_ENABLED=true")
	}
	oddsTimeout, err := time.ParseDuration(getEnv("ODDS_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_TIMEOUT: %w", err)
	}
	if oddsTimeout <= 0 {
		return Config{}, fmt.Errorf("ODDS_TIMEOUT must be > 0")
	}
	oddsMaxRetries, err := getEnvAsInt("ODDS_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_MAX_RETRIES: %w", err)
	}
	if oddsMaxRetries < 0 {
		return Config{}, fmt.Errorf("ODDS_MAX_RETRIES must be >= 0")
	}
	oddsCacheTTL, err := time.ParseDuration(getEnv("ODDS_CACHE_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDS_CACHE_TTL: %w", err)
	}
	if oddsCacheTTL < 0 {
		return Config{}, fmt.Errorf("ODDS_CACHE_TTL must be >= 0")
	}
	oddsCacheBackend := strings.ToLower(strings.TrimSpace(getEnv("ODDS_CACHE_BACKEND", CacheBackendMemory)))
	if oddsCacheBackend != CacheBackendMemory && oddsCacheBackend != CacheBackendRedis {
		return Config{}, fmt.Errorf("ODDS_CACHE_BACKEND must be one of %s|%s", CacheBackendMemory, CacheBackendRedis)
	}
	redisAddr := strings.TrimSpace(getEnv("REDIS_ADDR", ""))
	if oddsCacheBackend == CacheBackendRedis && oddsCacheTTL > 0 && redisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when ODDS_CACHE_BACKEND=redis")
	}
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if redisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must be >= 0")
	}
	oddsCircuit, err := loadCircuitBreaker("ODDS")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "mlb-schedule-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		MetricsEnabled:             metricsEnabled,
		ScheduleRequestTimeout:     scheduleRequestTimeout,
		ReconcileTimezone:          reconcileLocation.String(),
		ReconcileLocation:          reconcileLocation,
		MLBBaseURL:                 strings.TrimSpace(getEnv("MLB_BASE_URL", "https://statsapi.mlb.com/api")),
		MLBTimeout:                 mlbTimeout,
		MLBMaxRetries:              mlbMaxRetries,
		MLBWindowDays:              mlbWindowDays,
		MLBMaxWorkers:              mlbMaxWorkers,
		MLBCircuit:                 mlbCircuit,
		OddsEnabled:                oddsEnabled,
		OddsBaseURL:                strings.TrimSpace(getEnv("ODDS_BASE_URL", "https://api.the-odds-api.com")),
		OddsAPIKey:                 oddsAPIKey,
		OddsSport:                  strings.TrimSpace(getEnv("ODDS_SPORT", "baseball_mlb")),
		OddsRegions:                strings.TrimSpace(getEnv("ODDS_REGIONS", "us")),
		OddsBookmaker:              strings.TrimSpace(getEnv("ODDS_BOOKMAKER", "")),
		OddsMarket:                 strings.TrimSpace(getEnv("ODDS_MARKET", "")),
		OddsTimeout:                oddsTimeout,
		OddsMaxRetries:             oddsMaxRetries,
		OddsCacheTTL:               oddsCacheTTL,
		OddsCacheBackend:           oddsCacheBackend,
		RedisAddr:                  redisAddr,
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		RedisDB:                    redisDB,
		OddsCircuit:                oddsCircuit,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// loadCircuitBreaker reads <prefix>_CIRCUIT_{ENABLED,FAILURE_COUNT,OPEN_TIMEOUT,HALF_OPEN_MAX_REQ}.
func loadCircuitBreaker(prefix string) (resilience.CircuitBreakerConfig, error) {
	defaults := resilience.DefaultCircuitBreakerConfig()

	enabledKey := prefix + "_CIRCUIT_ENABLED"
	enabled, err := strconv.ParseBool(getEnv(enabledKey, strconv.FormatBool(defaults.Enabled)))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", enabledKey, err)
	}

	failureKey := prefix + "_CIRCUIT_FAILURE_COUNT"
	failureCount, err := getEnvAsInt(failureKey, defaults.FailureThreshold)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", failureKey, err)
	}
	if failureCount < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be >= 1", failureKey)
	}

	openKey := prefix + "_CIRCUIT_OPEN_TIMEOUT"
	openTimeout, err := time.ParseDuration(getEnv(openKey, defaults.OpenTimeout.String()))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", openKey, err)
	}
	if openTimeout <= 0 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be > 0", openKey)
	}

	halfOpenKey := prefix + "_CIRCUIT_HALF_OPEN_MAX_REQ"
	halfOpenMaxReq, err := getEnvAsInt(halfOpenKey, defaults.HalfOpenMaxReq)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", halfOpenKey, err)
	}
	if halfOpenMaxReq < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be >= 1", halfOpenKey)
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}, nil
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
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

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
