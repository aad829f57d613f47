package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "valeur")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "pas-un-nombre")
	t.Setenv("TEST_DUR", "30s")
	t.Setenv("TEST_LIST", "http://a.example, http://b.example ,")

	if got := getEnv("TEST_STR", "def"); got != "valeur" {
		t.Errorf("getEnv = %q", got)
	}
	if got := getEnv("TEST_ABSENT", "def"); got != "def" {
		t.Errorf("getEnv défaut = %q", got)
	}

	if got := getEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d", got)
	}
	if got := getEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("getEnvInt valeur illisible = %d, attendu le défaut", got)
	}

	if got := getEnvDuration("TEST_DUR", time.Minute); got != 30*time.Second {
		t.Errorf("getEnvDuration = %v", got)
	}

	list := splitEnv("TEST_LIST", "*")
	if len(list) != 2 || list[0] != "http://a.example" || list[1] != "http://b.example" {
		t.Errorf("splitEnv = %v", list)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Pas de .env ni de variables : tout doit retomber sur les défauts
	t.Setenv("PORT", "")
	t.Setenv("SCYLLA_KEYSPACE", "")
	t.Setenv("SCYLLA_HOSTS", "")
	t.Setenv("JWT_EXPIRY", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.ScyllaKeyspace != "ks_vitrine" {
		t.Errorf("ScyllaKeyspace = %q", cfg.ScyllaKeyspace)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v", cfg.JWTExpiry)
	}
	if len(cfg.ScyllaHosts) != 1 || cfg.ScyllaHosts[0] != "127.0.0.1" {
		t.Errorf("ScyllaHosts = %v", cfg.ScyllaHosts)
	}
}
