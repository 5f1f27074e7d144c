package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/jawago/server/internal/geo"
)

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"JAWAGO_DB_HOST"`
	Port     int    `yaml:"port" env:"JAWAGO_DB_PORT"`
	User     string `yaml:"user" env:"JAWAGO_DB_USER"`
	Password string `yaml:"password" env:"JAWAGO_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"JAWAGO_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"JAWAGO_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// GameServer holds all configuration for the game server.
type GameServer struct {
	// Network
	BindAddress string `yaml:"bind_address" env:"JAWAGO_BIND_ADDRESS"`
	Port        int    `yaml:"port" env:"JAWAGO_PORT"`

	// Logging
	LogLevel string `yaml:"log_level" env:"JAWAGO_LOG_LEVEL"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Play area and spawn population
	PlayArea       geo.Bounds `yaml:"play_area"`
	TargetSpawns   int        `yaml:"target_spawns" env:"JAWAGO_TARGET_SPAWNS"`
	RefillInterval time.Duration `yaml:"refill_interval" env:"JAWAGO_REFILL_INTERVAL"`

	// Geofence radii in meters. Landmarks are larger physical sites, so
	// their radius is wider than the capture radius.
	CaptureRadiusMeters  float64 `yaml:"capture_radius_meters" env:"JAWAGO_CAPTURE_RADIUS"`
	LandmarkRadiusMeters float64 `yaml:"landmark_radius_meters" env:"JAWAGO_LANDMARK_RADIUS"`

	// HTTP timeouts
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DefaultGameServer returns GameServer config with sensible defaults.
// The default play area covers Yogyakarta.
func DefaultGameServer() GameServer {
	return GameServer{
		BindAddress:    "0.0.0.0",
		Port:           8080,
		LogLevel:       "info",
		TargetSpawns:   30,
		RefillInterval: time.Minute,
		PlayArea: geo.Bounds{
			MinLat: -7.8300,
			MaxLat: -7.7400,
			MinLng: 110.3200,
			MaxLng: 110.4200,
		},
		CaptureRadiusMeters:  30,
		LandmarkRadiusMeters: 50,
		ReadTimeout:          15 * time.Second,
		WriteTimeout:         15 * time.Second,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "jawago",
			Password: "jawago",
			DBName:   "jawago",
			SSLMode:  "disable",
		},
	}
}

// LoadGameServer loads game server config from a YAML file, then applies
// environment overrides. If the file doesn't exist, returns defaults.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}

	return cfg, nil
}
