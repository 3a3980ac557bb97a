package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig holds every setting of the engine service.
// Secrets have no defaults and must come from config.json, .env or the environment.
type AppConfig struct {
	AppPort            string   `env:"APP_PORT"`
	JWTSecret          string   `env:"JWT_SECRET"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     []string `env:"ALLOWED_ORIGINS"`
	// Users that may always end games and manage enders
	AdminUsers []string `env:"ADMIN_USERS"`
	// Gin framework configuration
	GinMode string `env:"GIN_MODE"`
	// Database: sqlite, mysql or postgres
	DBDriver       string `env:"DB_DRIVER"`
	DatabaseURI    string `env:"DATABASE_URI"`
	DBHost         string `env:"DB_HOST"`
	DBPort         string `env:"DB_PORT"`
	DBUser         string `env:"DB_USER"`
	DBPassword     string `env:"DB_PASSWORD"`
	DBName         string `env:"DB_NAME"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS"`
	// Redis for votes and daily markers
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     int    `env:"REDIS_PORT"`
	RedisDB       int    `env:"REDIS_DB"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	// Logging configuration
	LogLevel      string `env:"LOG_LEVEL"`
	LogPath       string `env:"LOG_PATH"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS"`
	LogCompress   bool   `env:"LOG_COMPRESS"`
	// Regular game
	CorpusPath     string `env:"CORPUS_PATH"`
	MaxGuesses     int    `env:"GAME_MAX_GUESSES"`
	ScoreBase      int    `env:"GAME_SCORE_BASE"`
	HintAfter      int    `env:"GAME_HINT_AFTER"`
	RecentWindow   int    `env:"GAME_RECENT_WINDOW"`
	VoteQuorum     int    `env:"VOTE_QUORUM"`
	VoteTTLSeconds int    `env:"VOTE_TTL_SECONDS"`
	// Daily puzzle
	DailySecret         string `env:"DAILY_WORDLE_SECRET"`
	DailyStartDate      string `env:"DAILY_WORDLE_START_DATE"`
	DailyTimezone       string `env:"TIME_ZONE"`
	DailyCutoverHour    int    `env:"DAILY_CUTOVER_HOUR"`
	DailyMaxAttempts    int    `env:"DAILY_MAX_ATTEMPTS"`
	DailyWarmMinutes    int    `env:"DAILY_WARM_MINUTES"`
	EnrichURL           string `env:"ENRICH_URL"`
	EnrichTokenURL      string `env:"ENRICH_TOKEN_URL"`
	EnrichClientID      string `env:"ENRICH_CLIENT_ID"`
	EnrichClientSecret  string `env:"ENRICH_CLIENT_SECRET"`
	EnrichTimeoutMillis int    `env:"ENRICH_TIMEOUT_MS"`
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	c, err := LoadFrom(filepath.Join("config", "config.json"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if c.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}
	if c.DailySecret == "" {
		log.Fatal("DAILY_WORDLE_SECRET must be set in environment variables")
	}
	cfg = c
	loaded = true
	return cfg
}

// LoadFrom builds a config with precedence: json file -> defaults -> environment.
// A .env file in the working directory is read into the environment first.
func LoadFrom(path string) (AppConfig, error) {
	// 0 is a valid cutover hour, so "unset" is -1 until defaults run
	c := AppConfig{DailyCutoverHour: -1}
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	if err := loadJSONConfig(path, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(&c)
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// fileConfig mirrors config.json, grouped by concern.
type fileConfig struct {
	App struct {
		AppPort            string
		JWTSecret          string
		RateLimitPerMinute int
		AllowedOrigins     []string
		AdminUsers         []string
		GinMode            string
	} `json:"app"`
	Database struct {
		Driver       string
		DatabaseURI  string
		DBHost       string
		DBPort       string
		DBUser       string
		DBPassword   string
		DBName       string
		MaxOpenConns int
		MaxIdleConns int
	} `json:"database"`
	Redis struct {
		RedisHost     string
		RedisPort     int
		RedisDB       int
		RedisPassword string
	} `json:"redis"`
	Log struct {
		Level      string
		Path       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	} `json:"log"`
	Game struct {
		CorpusPath     string
		MaxGuesses     int
		ScoreBase      int
		HintAfter      int
		RecentWindow   int
		VoteQuorum     int
		VoteTTLSeconds int
	} `json:"game"`
	Daily struct {
		Secret      string
		StartDate   string
		Timezone    string
		CutoverHour *int
		MaxAttempts int
		WarmMinutes int
	} `json:"daily"`
	Enrich struct {
		URL           string
		TokenURL      string
		ClientID      string
		ClientSecret  string
		TimeoutMillis int
	} `json:"enrich"`
}

// loadJSONConfig reads the JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	var f fileConfig
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}

	out.AppPort = f.App.AppPort
	out.JWTSecret = f.App.JWTSecret
	out.RateLimitPerMinute = f.App.RateLimitPerMinute
	out.AllowedOrigins = f.App.AllowedOrigins
	out.AdminUsers = f.App.AdminUsers
	out.GinMode = f.App.GinMode

	out.DBDriver = f.Database.Driver
	out.DatabaseURI = f.Database.DatabaseURI
	out.DBHost = f.Database.DBHost
	out.DBPort = f.Database.DBPort
	out.DBUser = f.Database.DBUser
	out.DBPassword = f.Database.DBPassword
	out.DBName = f.Database.DBName
	out.DBMaxOpenConns = f.Database.MaxOpenConns
	out.DBMaxIdleConns = f.Database.MaxIdleConns

	out.RedisHost = f.Redis.RedisHost
	out.RedisPort = f.Redis.RedisPort
	out.RedisDB = f.Redis.RedisDB
	out.RedisPassword = f.Redis.RedisPassword

	out.LogLevel = f.Log.Level
	out.LogPath = f.Log.Path
	out.LogMaxSizeMB = f.Log.MaxSizeMB
	out.LogMaxBackups = f.Log.MaxBackups
	out.LogMaxAgeDays = f.Log.MaxAgeDays
	out.LogCompress = f.Log.Compress

	out.CorpusPath = f.Game.CorpusPath
	out.MaxGuesses = f.Game.MaxGuesses
	out.ScoreBase = f.Game.ScoreBase
	out.HintAfter = f.Game.HintAfter
	out.RecentWindow = f.Game.RecentWindow
	out.VoteQuorum = f.Game.VoteQuorum
	out.VoteTTLSeconds = f.Game.VoteTTLSeconds

	out.DailySecret = f.Daily.Secret
	out.DailyStartDate = f.Daily.StartDate
	out.DailyTimezone = f.Daily.Timezone
	if f.Daily.CutoverHour != nil {
		out.DailyCutoverHour = *f.Daily.CutoverHour
	}
	out.DailyMaxAttempts = f.Daily.MaxAttempts
	out.DailyWarmMinutes = f.Daily.WarmMinutes

	out.EnrichURL = f.Enrich.URL
	out.EnrichTokenURL = f.Enrich.TokenURL
	out.EnrichClientID = f.Enrich.ClientID
	out.EnrichClientSecret = f.Enrich.ClientSecret
	out.EnrichTimeoutMillis = f.Enrich.TimeoutMillis
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 600
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		switch c.DBDriver {
		case "postgres":
			c.DBPort = "5432"
		default:
			c.DBPort = "3306"
		}
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "wordseek"
	}
	if c.DBMaxOpenConns == 0 {
		c.DBMaxOpenConns = 20
	}
	if c.DBMaxIdleConns == 0 {
		c.DBMaxIdleConns = 5
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.MaxGuesses == 0 {
		c.MaxGuesses = 30
	}
	if c.ScoreBase == 0 {
		c.ScoreBase = 30
	}
	if c.HintAfter == 0 {
		c.HintAfter = 20
	}
	if c.RecentWindow == 0 {
		c.RecentWindow = 200
	}
	if c.VoteQuorum == 0 {
		c.VoteQuorum = 3
	}
	if c.VoteTTLSeconds == 0 {
		c.VoteTTLSeconds = 300
	}
	if c.DailyStartDate == "" {
		c.DailyStartDate = "2025-11-28"
	}
	if c.DailyTimezone == "" {
		c.DailyTimezone = "Asia/Kathmandu"
	}
	if c.DailyCutoverHour < 0 || c.DailyCutoverHour > 23 {
		c.DailyCutoverHour = 6
	}
	if c.DailyMaxAttempts == 0 {
		c.DailyMaxAttempts = 6
	}
	if c.DailyWarmMinutes == 0 {
		c.DailyWarmMinutes = 10
	}
	if c.EnrichTimeoutMillis == 0 {
		c.EnrichTimeoutMillis = 3000
	}
}
