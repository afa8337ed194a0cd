package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Badger     BadgerConfig     `mapstructure:"badger"`
	Database   DatabaseConfig   `mapstructure:"database"`
	S3         S3Config         `mapstructure:"s3"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// Storage backends
const (
	BackendBadger = "badger"
	BackendMongo  = "mongo"
	BackendS3     = "s3"
)

type StorageConfig struct {
	Backend       string `mapstructure:"backend"`
	WorkoutsKey   string `mapstructure:"workouts_key"`
	LogsKey       string `mapstructure:"logs_key"`
	CorruptPolicy string `mapstructure:"corrupt_policy"` // discard or retain
}

type BadgerConfig struct {
	Path       string `mapstructure:"path"`
	InMemory   bool   `mapstructure:"in_memory"`
	SyncWrites bool   `mapstructure:"sync_writes"`
}

type DatabaseConfig struct {
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	Prefix          string `mapstructure:"prefix"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Classifier providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type ClassifierConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// RequestsPerMinute caps outgoing calls. Zero means unlimited.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	// ReclassifyConcurrency bounds parallel calls when re-classifying a workout.
	ReclassifyConcurrency int `mapstructure:"reclassify_concurrency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "45s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.backend", BackendBadger)
	v.SetDefault("storage.workouts_key", "saved_workouts")
	v.SetDefault("storage.logs_key", "saved_workout_logs")
	v.SetDefault("storage.corrupt_policy", "discard")
	v.SetDefault("badger.path", "./data/state")
	v.SetDefault("badger.in_memory", false)
	v.SetDefault("badger.sync_writes", true)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "workout_tracker")
	v.SetDefault("database.collection", "app_state")
	// Empty defaults register the keys so AutomaticEnv can fill them during Unmarshal.
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.prefix", "workout-tracker/")
	v.SetDefault("s3.use_ssl", true) // Default to true for cloud providers
	v.SetDefault("classifier.provider", ProviderGemini)
	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.base_url", "")
	v.SetDefault("classifier.model", "")
	v.SetDefault("classifier.timeout", "30s")
	v.SetDefault("classifier.requests_per_minute", 0)
	v.SetDefault("classifier.reclassify_concurrency", 4)
}

// Loader owns the viper instance so the config file can be watched after load.
type Loader struct {
	v *viper.Viper
}

// NewLoader looks for config.yaml in path. Environment variables override file values,
// with nested keys joined by underscores (classifier.api_key -> CLASSIFIER_API_KEY).
func NewLoader(path string) *Loader {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	setDefaults(v)
	return &Loader{v: v}
}

// Load reads the config file, if any, and unmarshals it.
// A missing config file is not an error.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch calls onChange with the re-read config every time the file changes.
// Invalid edits are reported to onError and otherwise ignored.
// It does nothing when no config file was found.
func (l *Loader) Watch(onChange func(Config), onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := l.unmarshal()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendBadger, BackendMongo, BackendS3:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Storage.CorruptPolicy {
	case "discard", "retain":
	default:
		return fmt.Errorf("unknown corrupt policy %q", c.Storage.CorruptPolicy)
	}
	switch c.Classifier.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderNone:
	default:
		return fmt.Errorf("unknown classifier provider %q", c.Classifier.Provider)
	}
	if c.Storage.Backend == BackendS3 && c.S3.BucketName == "" {
		return errors.New("s3.bucket_name is required for the s3 backend")
	}
	if c.Classifier.ReclassifyConcurrency < 1 {
		return errors.New("classifier.reclassify_concurrency must be at least 1")
	}
	return nil
}
