package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const devTokenSecret = "orbite-dev-secret-change-me"

type Config struct {
	Env     string // "local", "dev", "prod"
	AppName string

	// Stockage local
	DataPath string // fichier bbolt

	// Sécurité
	TokenSecret string
	SessionTTL  time.Duration
}

// Load charge la configuration depuis l'ENV (et un éventuel .env)
// ou utilise des défauts.
func Load() (*Config, error) {
	// Best effort : pas de .env n'est pas une erreur.
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("APP_ENV", "local"),
		AppName:     getEnv("APP_NAME", "orbite"),
		DataPath:    getEnv("ORBITE_DATA_PATH", defaultDataPath()),
		TokenSecret: getEnv("ORBITE_TOKEN_SECRET", devTokenSecret),
		SessionTTL:  getEnvDuration("ORBITE_SESSION_TTL", 30*24*time.Hour),
	}

	// Validation basique pour éviter de démarrer avec une config cassée.
	if cfg.Env == "prod" && cfg.TokenSecret == devTokenSecret {
		return nil, fmt.Errorf("ORBITE_TOKEN_SECRET is required in production")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("ORBITE_SESSION_TTL must be positive")
	}

	return cfg, nil
}

// defaultDataPath place le store dans ~/.orbite, ou dans le répertoire
// courant si le HOME est introuvable.
func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "orbite.db"
	}
	return filepath.Join(home, ".orbite", "orbite.db")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
