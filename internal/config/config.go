package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	SessionSecret string
	JWTSecret     string
	SecureCookies bool

	StoreDriver string
	DatabaseURL string

	RedisHost     string
	RedisPassword string

	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaUsername string
	ScyllaPassword string
	ScyllaCACert   string

	MetricsInterval time.Duration
	MetricsRegion   string

	CORSOrigins []string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	SeedDemoData bool
}

// Load lit le fichier .env s'il existe puis construit la configuration depuis l'environnement
func Load() Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv applique les valeurs par défaut; une valeur invalide est signalée puis ignorée
func FromEnv() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         os.Getenv("GIN_MODE"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SecureCookies:   getBool("SECURE_COOKIES", false),
		StoreDriver:     getEnv("STORE_DRIVER", "memory"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ScyllaHosts:     splitList(os.Getenv("SCYLLA_HOSTS")),
		ScyllaKeyspace:  getEnv("SCYLLA_KEYSPACE", "cloudscale"),
		ScyllaUsername:  os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword:  os.Getenv("SCYLLA_PASSWORD"),
		ScyllaCACert:    os.Getenv("SCYLLA_CA_CERT"),
		MetricsInterval: getDuration("METRICS_INTERVAL", 5*time.Second),
		MetricsRegion:   getEnv("METRICS_REGION", "ap-south-1a"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        getInt("SMTP_PORT", 587),
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		MailFrom:        os.Getenv("MAIL_FROM"),
		SeedDemoData:    getBool("SEED_DEMO_DATA", true),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		log.Printf("⚠️ PORT invalide (%q), utilisation de 8080", cfg.Port)
		cfg.Port = "8080"
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = randomSecret()
		log.Println("⚠️ SESSION_SECRET absent: secret aléatoire, les sessions ne survivront pas au redémarrage")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		log.Println("⚠️ JWT_SECRET absent: secret aléatoire, les jetons émis ne survivront pas au redémarrage")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %t", key, raw, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("❌ Génération du secret de session: %v", err)
	}
	return hex.EncodeToString(buf)
}
