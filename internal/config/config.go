package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du serveur. Aucune variable
// globale : la config est chargée une fois dans main puis injectée.
type Config struct {
	Port        string
	CORSOrigins []string

	// ScyllaDB
	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaUser     string
	ScyllaPassword string
	ScyllaTimeout  time.Duration
	ScyllaNumConns int

	// Redis
	RedisHost     string
	RedisPassword string

	// Elasticsearch (optionnel)
	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	// MinIO (optionnel)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// SMTP (optionnel — confirmations de commande)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Auth
	JWTSecret string
	JWTExpiry time.Duration
}

// Load charge .env puis construit la configuration depuis l'environnement
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitEnv("CORS_ORIGINS", "*"),

		ScyllaHosts:    splitEnv("SCYLLA_HOSTS", "127.0.0.1"),
		ScyllaKeyspace: getEnv("SCYLLA_KEYSPACE", "ks_vitrine"),
		ScyllaUser:     os.Getenv("SCYLLA_USERNAME"),
		ScyllaPassword: os.Getenv("SCYLLA_PASSWORD"),
		ScyllaTimeout:  getEnvDuration("SCYLLA_TIMEOUT", 5*time.Second),
		ScyllaNumConns: getEnvInt("SCYLLA_NUM_CONNS", 20),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "vitrine-products"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@vitrine.shop"),

		JWTSecret: getEnv("JWT_SECRET", "super_secret"),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 24*time.Hour),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitEnv(key, def string) []string {
	raw := getEnv(key, def)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
