// Package config loads environment-based configuration. A local .env
// file is honored in development; production supplies real env vars.
package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type Config struct {
	AppPort     string
	DatabaseURL string

	RSAPrivateKey *rsa.PrivateKey
	RSAPublicKey  *rsa.PublicKey
	TokenExpiry   time.Duration

	OrganizationName string

	SendgridAPIKey    string
	SendgridFromEmail string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromPhone  string

	CORSAllowedOrigins []string

	SeedTestData bool
}

// Load reads the environment and fails fast on anything the service
// cannot run without.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Info("No .env file found, using environment variables")
	}

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		DatabaseURL:       mustEnv("DB_URL"),
		TokenExpiry:       parseDuration(getEnv("TOKEN_EXPIRY", "12h")),
		OrganizationName:  getEnv("ORGANIZATION_NAME", "Sarkar Jewellers"),
		SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendgridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:   os.Getenv("TWILIO_FROM_PHONE"),
		SeedTestData:      getEnv("SEED_TEST_DATA", "false") == "true",
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}

	cfg.RSAPrivateKey = parsePrivateKey(mustEnv("RSA_PRIVATE_KEY_BASE64"))
	cfg.RSAPublicKey = parsePublicKey(mustEnv("RSA_PUBLIC_KEY_BASE64"))

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s is not set", key)
	}
	return v
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Invalid duration %q", s)
	}
	return d
}

func parsePrivateKey(b64 string) *rsa.PrivateKey {
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 private key")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}
	return key
}

func parsePublicKey(b64 string) *rsa.PublicKey {
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to decode base64 public key")
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	return key
}
