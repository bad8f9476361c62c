package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Database   Database   `yaml:"database"`
	Redis      Redis      `yaml:"redis"`
	Auth       Auth       `yaml:"auth"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	Uploads    Uploads    `yaml:"uploads"`
	Booking    Booking    `yaml:"booking"`
	Admin      Admin      `yaml:"admin"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Database struct {
	Host         string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User         string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	DBName       string `yaml:"dbname" env:"DB_NAME" env-default:"event_booking"`
	SSLMode      string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns int    `yaml:"max_open_conns" env-default:"25"`
	Migrate      bool   `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

// Redis is optional. An empty address disables the auth rate limiter.
type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"JWT_TTL" env-default:"24h"`
}

type RateLimit struct {
	Requests int           `yaml:"requests" env-default:"10"`
	Window   time.Duration `yaml:"window" env-default:"1m"`
}

type Uploads struct {
	Dir          string `yaml:"dir" env:"UPLOADS_DIR" env-default:"./uploads"`
	MaxSize      int64  `yaml:"max_size" env-default:"5242880"`
	MaxDimension int    `yaml:"max_dimension" env-default:"1920"`
}

type Booking struct {
	Timezone          string        `yaml:"timezone" env:"BOOKING_TIMEZONE" env-default:"Local"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval" env-default:"5m"`
}

type Admin struct {
	Name     string `yaml:"name" env:"ADMIN_NAME" env-default:"Administrator"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("config path is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}

// Location resolves the booking time zone. "Local" and "" map to time.Local.
func (b Booking) Location() (*time.Location, error) {
	if b.Timezone == "" || b.Timezone == "Local" {
		return time.Local, nil
	}

	return time.LoadLocation(b.Timezone)
}
