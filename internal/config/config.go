package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tdic-outreach/mealroute/internal/roster"
)

// Config holds the full application configuration.
type Config struct {
	Maps    MapsConfig       `yaml:"maps" mapstructure:"maps"`
	Geocode GeocodeConfig    `yaml:"geocode" mapstructure:"geocode"`
	Cluster ClusterConfig    `yaml:"cluster" mapstructure:"cluster"`
	Labels  LabelsConfig     `yaml:"labels" mapstructure:"labels"`
	Columns roster.ColumnMap `yaml:"columns" mapstructure:"columns"`
	Output  OutputConfig     `yaml:"output" mapstructure:"output"`
	Store   StoreConfig      `yaml:"store" mapstructure:"store"`
	Server  ServerConfig     `yaml:"server" mapstructure:"server"`
	Log     LogConfig        `yaml:"log" mapstructure:"log"`
}

// MapsConfig holds the Google Maps platform credentials shared by the
// geocoding and static map clients.
type MapsConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// GeocodeConfig configures address resolution.
type GeocodeConfig struct {
	CachePath    string `yaml:"cache_path" mapstructure:"cache_path"`
	RateLimitMS  int    `yaml:"rate_limit_ms" mapstructure:"rate_limit_ms"`
	MaxRetries   int    `yaml:"max_retries" mapstructure:"max_retries"`
	RetryBaseSec int    `yaml:"retry_base_secs" mapstructure:"retry_base_secs"`
}

// ClusterConfig configures delivery grouping.
type ClusterConfig struct {
	Strategy         string  `yaml:"strategy" mapstructure:"strategy"`
	MaxGroupSize     int     `yaml:"max_group_size" mapstructure:"max_group_size"`
	MaxDistanceMiles float64 `yaml:"max_distance_miles" mapstructure:"max_distance_miles"`
	Deliverers       int     `yaml:"deliverers" mapstructure:"deliverers"`
}

// LabelsConfig configures the handout PDF.
type LabelsConfig struct {
	Zoom      int    `yaml:"zoom" mapstructure:"zoom"`
	EventName string `yaml:"event_name" mapstructure:"event_name"`
	OrgName   string `yaml:"org_name" mapstructure:"org_name"`
}

// OutputConfig configures where artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MEALROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one so environment overrides survive Unmarshal.
	v.SetDefault("maps.key", "")
	v.SetDefault("geocode.cache_path", "geocode_cache.json")
	v.SetDefault("geocode.rate_limit_ms", 100)
	v.SetDefault("geocode.max_retries", 3)
	v.SetDefault("geocode.retry_base_secs", 2)
	v.SetDefault("cluster.strategy", "greedy")
	v.SetDefault("cluster.max_group_size", 5)
	v.SetDefault("cluster.max_distance_miles", 1.5)
	v.SetDefault("cluster.deliverers", 0)
	v.SetDefault("labels.zoom", 15)
	v.SetDefault("labels.event_name", "")
	v.SetDefault("labels.org_name", "")
	v.SetDefault("output.dir", "out")
	v.SetDefault("store.path", "mealroute.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	setColumnDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setColumnDefaults(v *viper.Viper) {
	cm := roster.DefaultColumns()
	v.SetDefault("columns.id", cm.ID)
	v.SetDefault("columns.confirmation", cm.Confirmation)
	v.SetDefault("columns.last_name", cm.LastName)
	v.SetDefault("columns.first_name", cm.FirstName)
	v.SetDefault("columns.phone", cm.Phone)
	v.SetDefault("columns.address", cm.Address)
	v.SetDefault("columns.apartment", cm.Apartment)
	v.SetDefault("columns.city", cm.City)
	v.SetDefault("columns.state", cm.State)
	v.SetDefault("columns.zip", cm.Zip)
	v.SetDefault("columns.meals", cm.Meals)
	v.SetDefault("columns.boxes", cm.Boxes)
	v.SetDefault("columns.notes", cm.Notes)
	v.SetDefault("columns.notes2", cm.Notes2)
	v.SetDefault("columns.language", cm.Language)
	v.SetDefault("columns.comments", cm.Comments)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
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
	zap.ReplaceGlobals(logger)

	return nil
}
