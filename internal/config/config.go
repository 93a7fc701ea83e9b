package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// warnOut receives load-time warnings; the process logger does not
// exist yet while config is being read.
var warnOut io.Writer = os.Stderr

func warn(err error, msg string) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: warnOut, TimeFormat: time.Kitchen, NoColor: true}).
		With().Timestamp().Logger()
	log.Warn().Err(err).Msg(msg)
}

// Config holds pipeline settings derived from defaults, an optional
// YAML file, and environment variables (in that precedence order,
// lowest to highest).
type Config struct {
	DataDir  string
	DBPath   string
	WatchDir string
	LogLevel string

	GeocoderBaseURL string
	GeocoderToken   string
	GeocodeDelayMS  int

	PlaceBaseURL string
	PlaceToken   string

	StrictConfig bool

	Rules   Rules
	Catalog []ProductEntry
}

type fileConfig struct {
	DataDir  string `yaml:"data_dir"`
	DBPath   string `yaml:"db_path"`
	WatchDir string `yaml:"watch_dir"`
	LogLevel string `yaml:"log_level"`
	Geocoder struct {
		BaseURL string `yaml:"base_url"`
		DelayMS int    `yaml:"delay_ms"`
	} `yaml:"geocoder"`
	Place struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"place"`
	Rules   Rules          `yaml:"rules"`
	Catalog []ProductEntry `yaml:"catalog"`
}

const (
	defaultDataDir   = "data"
	defaultDBFile    = "locator.db"
	defaultWatchDir  = "data/incoming"
	defaultLogLevel  = "info"
	defaultGeoDelay  = 1100
	defaultConfigRel = "config.yaml"
)

// Load reads configuration. A missing config file is not an error
// unless STRICT_CONFIG is set; every stage can run on baked-in
// defaults plus environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:       defaultLogLevel,
		GeocodeDelayMS: defaultGeoDelay,
		GeocoderToken:  os.Getenv("GEOCODER_TOKEN"),
		PlaceToken:     os.Getenv("PLACE_TOKEN"),
		StrictConfig:   parseBoolEnv("STRICT_CONFIG"),
		Rules:          DefaultRules(),
		Catalog:        DefaultCatalog(),
	}

	configPath := getenv("CONFIG_PATH", defaultConfigRel)
	fileCfg, fileErr := loadFileConfig(configPath)
	if fileErr != nil && !os.IsNotExist(fileErr) {
		if cfg.StrictConfig {
			return cfg, fmt.Errorf("config load failed (%s): %w", configPath, fileErr)
		}
		warn(fileErr, fmt.Sprintf("config file %s ignored, continuing on defaults", configPath))
	}

	cfg.DataDir = firstNonEmpty(os.Getenv("DATA_DIR"), fileCfg.DataDir, defaultDataDir)
	cfg.WatchDir = firstNonEmpty(os.Getenv("WATCH_DIR"), fileCfg.WatchDir, defaultWatchDir)
	cfg.LogLevel = firstNonEmpty(os.Getenv("LOG_LEVEL"), fileCfg.LogLevel, defaultLogLevel)
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	} else if fileCfg.DBPath != "" {
		cfg.DBPath = fileCfg.DBPath
	} else {
		cfg.DBPath = filepath.Join(cfg.DataDir, defaultDBFile)
	}

	cfg.GeocoderBaseURL = firstNonEmpty(os.Getenv("GEOCODER_BASE_URL"), fileCfg.Geocoder.BaseURL)
	cfg.PlaceBaseURL = firstNonEmpty(os.Getenv("PLACE_BASE_URL"), fileCfg.Place.BaseURL)
	if fileCfg.Geocoder.DelayMS > 0 {
		cfg.GeocodeDelayMS = fileCfg.Geocoder.DelayMS
	}
	if v := os.Getenv("GEOCODE_DELAY_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			if cfg.StrictConfig {
				return cfg, fmt.Errorf("invalid GEOCODE_DELAY_MS=%q", v)
			}
			warn(nil, fmt.Sprintf("invalid GEOCODE_DELAY_MS=%q ignored", v))
		} else {
			cfg.GeocodeDelayMS = n
		}
	}

	cfg.Rules = MergeRules(cfg.Rules, fileCfg.Rules)
	if len(fileCfg.Catalog) > 0 {
		cfg.Catalog = fileCfg.Catalog
	}

	if err := validate(cfg); err != nil {
		if cfg.StrictConfig {
			return cfg, err
		}
		warn(err, "config validation failed, continuing anyway")
	}
	return cfg, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if len(data) == 0 {
		return cfg, errors.New("empty config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("DATA_DIR is required")
	}
	if len(cfg.Catalog) == 0 {
		return errors.New("product catalog must not be empty")
	}
	seen := map[string]struct{}{}
	for _, p := range cfg.Catalog {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			return errors.New("catalog entry with empty code")
		}
		if _, dup := seen[code]; dup {
			return fmt.Errorf("duplicate catalog code %q", code)
		}
		seen[code] = struct{}{}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if strings.TrimSpace(val) != "" {
			return val
		}
	}
	return ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
