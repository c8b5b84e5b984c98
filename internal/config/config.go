// Package config loads daemon configuration from .env, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding the YAML config path.
const FileEnv = "ADZANID_CONFIG"

// Config is the daemon configuration.
type Config struct {
	Addr      string `yaml:"addr" validate:"required"`
	DataDir   string `yaml:"data_dir" validate:"required"`
	StaticDir string `yaml:"static_dir"`

	LogLevel  string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogPretty bool   `yaml:"log_pretty"`

	// City and AdhanPath seed the settings store until the user saves their own.
	City                 string        `yaml:"city" validate:"required"`
	AdhanPath            string        `yaml:"adhan_path" validate:"required"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	DndTimeout           time.Duration `yaml:"dnd_timeout" validate:"gt=0"`

	Aladhan Aladhan `yaml:"aladhan"`
	MQTT    MQTT    `yaml:"mqtt"`
	Redis   Redis   `yaml:"redis"`
	Update  Update  `yaml:"update"`

	// Path is the YAML file the config was read from, if any.
	Path string `yaml:"-"`
}

// Aladhan configures the schedule provider.
type Aladhan struct {
	URL            string `yaml:"url" validate:"required,url"`
	Country        string `yaml:"country" validate:"required"`
	Method         int    `yaml:"method" validate:"min=0,max=99"`
	Tune           string `yaml:"tune"`
	UseCoordinates bool   `yaml:"use_coordinates"`
}

// MQTT configures the optional trigger publisher.
type MQTT struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic" validate:"required_with=Broker"`
	ClientID string `yaml:"client_id"`
}

// Redis configures the optional shared schedule archive.
type Redis struct {
	Address  string        `yaml:"address"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"min=0"`
	TTL      time.Duration `yaml:"ttl"`
}

// Update configures the release checker.
type Update struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url" validate:"omitempty,url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:                 ":8099",
		DataDir:              defaultDataDir(),
		LogLevel:             "info",
		City:                 "Jakarta",
		AdhanPath:            "assets/adzan.mp3",
		DesktopNotifications: true,
		DndTimeout:           3 * time.Second,
		Aladhan: Aladhan{
			URL:            "https://api.aladhan.com/v1",
			Country:        "Indonesia",
			Method:         20,
			Tune:           "0,1,0,2,3,2,0,1,0",
			UseCoordinates: true,
		},
		MQTT: MQTT{
			Topic:    "adzanid/prayer",
			ClientID: "adzanid",
		},
		Update: Update{
			Enabled: true,
			URL:     "https://api.github.com/repos/fikrisyahid/adzanid/releases/latest",
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "adzanid")
	}
	return "data"
}

// Load reads .env (when present), the YAML file named by ADZANID_CONFIG,
// then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return LoadFile(os.Getenv(FileEnv))
}

// LoadFile builds the configuration from defaults, the YAML file at path
// (skipped when empty) and the environment, then validates it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.Path = path
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = getEnv("ADDR", c.Addr)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogPretty = getEnvBool("LOG_PRETTY", c.LogPretty)

	c.City = getEnv("CITY", c.City)
	c.AdhanPath = getEnv("ADHAN_PATH", c.AdhanPath)
	c.DesktopNotifications = getEnvBool("DESKTOP_NOTIFICATIONS", c.DesktopNotifications)
	c.DndTimeout = getEnvDuration("DND_TIMEOUT", c.DndTimeout)

	c.Aladhan.URL = getEnv("ALADHAN_URL", c.Aladhan.URL)
	c.Aladhan.Country = getEnv("COUNTRY", c.Aladhan.Country)
	c.Aladhan.Method = getEnvInt("ALADHAN_METHOD", c.Aladhan.Method)
	c.Aladhan.Tune = getEnv("ALADHAN_TUNE", c.Aladhan.Tune)

	c.MQTT.Broker = getEnv("MQTT_BROKER", c.MQTT.Broker)
	c.MQTT.Topic = getEnv("MQTT_TOPIC", c.MQTT.Topic)

	c.Redis.Address = getEnv("REDIS_ADDRESS", c.Redis.Address)
	c.Redis.Username = getEnv("REDIS_USERNAME", c.Redis.Username)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)

	c.Update.URL = getEnv("UPDATE_CHECK_URL", c.Update.URL)
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// DBPath returns the SQLite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "adzanid.db")
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
