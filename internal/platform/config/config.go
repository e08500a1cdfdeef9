package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env     string
	Port    string
	AppName string

	LogLevel  string
	LogFormat string

	DatabaseDSN string

	JWTSecret string
	JWTTTL    time.Duration

	ShutdownTimeout time.Duration
	GraphQLMaxDepth int

	Petfinder  PetfinderConfig
	Geocoding  GeocodingConfig
	Cloudinary CloudinaryConfig
	Images     ImagesConfig
}

type PetfinderConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	TokenBuffer  time.Duration
}

type GeocodingConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type CloudinaryConfig struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	Timeout   time.Duration
}

type ImagesConfig struct {
	MaxBytes     int
	MaxDimension int
	MaxPixels    int
}

// Load lee los .env indicados (si existen) y luego el entorno.
// Las variables ya presentes en el entorno ganan sobre el archivo.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	var errs []error
	cfg := Config{
		Env:       getEnv("APP_ENV", EnvDevelopment),
		Port:      getEnv("PORT", "8080"),
		AppName:   getEnv("APP_NAME", "newleash"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DatabaseDSN: strings.TrimSpace(os.Getenv("DB_DSN")),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		JWTTTL:          getDuration("JWT_TTL", 2*time.Hour, &errs),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
		GraphQLMaxDepth: getInt("GRAPHQL_MAX_DEPTH", 10, &errs),

		Petfinder: PetfinderConfig{
			BaseURL:      getEnv("PETFINDER_BASE_URL", "https://api.petfinder.com/v2"),
			ClientID:     os.Getenv("PETFINDER_CLIENT_ID"),
			ClientSecret: os.Getenv("PETFINDER_CLIENT_SECRET"),
			Timeout:      getDuration("PETFINDER_TIMEOUT", 10*time.Second, &errs),
			TokenBuffer:  getDuration("PETFINDER_TOKEN_BUFFER", 60*time.Second, &errs),
		},
		Geocoding: GeocodingConfig{
			BaseURL: getEnv("GEOCODING_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
			APIKey:  os.Getenv("GEOCODING_API_KEY"),
			Timeout: getDuration("GEOCODING_TIMEOUT", 5*time.Second, &errs),
		},
		Cloudinary: CloudinaryConfig{
			BaseURL:   getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1"),
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    getEnv("CLOUDINARY_FOLDER", "newleash"),
			Timeout:   getDuration("CLOUDINARY_TIMEOUT", 20*time.Second, &errs),
		},
		Images: ImagesConfig{
			MaxBytes:     getInt("IMAGE_MAX_BYTES", 1<<20, &errs),
			MaxDimension: getInt("IMAGE_MAX_DIMENSION", 1600, &errs),
			MaxPixels:    getInt("IMAGE_MAX_PIXELS", 40_000_000, &errs),
		},
	}

	if err := cfg.validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) validate() error {
	if c.IsProduction() && len(c.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be at least 16 characters in production")
	}
	if c.Images.MaxBytes <= 0 || c.Images.MaxDimension <= 0 {
		return errors.New("config: IMAGE_MAX_BYTES and IMAGE_MAX_DIMENSION must be positive")
	}
	if c.GraphQLMaxDepth <= 0 {
		return errors.New("config: GRAPHQL_MAX_DEPTH must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return fallback
	}
	return d
}

func getInt(key string, fallback int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return fallback
	}
	return n
}
