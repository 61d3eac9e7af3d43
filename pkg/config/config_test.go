package config

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	os.Setenv("APP_ENV", "test")
	defer os.Unsetenv("APP_ENV")

	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if c.DBHost != "localhost" {
		t.Fatalf("expected default DB_HOST localhost, got %s", c.DBHost)
	}
	if c.DBPort != 5432 {
		t.Fatalf("expected default DB_PORT 5432, got %d", c.DBPort)
	}
	if c.HTTPAddr != "0.0.0.0:5000" {
		t.Fatalf("expected default HTTP_ADDR 0.0.0.0:5000, got %s", c.HTTPAddr)
	}
}

func TestDatabaseDSN(t *testing.T) {
	os.Setenv("APP_ENV", "test")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "6432")
	os.Setenv("DB_USER", "svc")
	os.Setenv("DB_PASSWORD", "hunter2")
	os.Setenv("DB_NAME", "accounts")
	defer func() {
		for _, k := range []string{"APP_ENV", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
			os.Unsetenv(k)
		}
	}()

	c, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	want := "host=db.internal port=6432 user=svc password=hunter2 dbname=accounts sslmode=disable"
	if got := c.DatabaseDSN(); got != want {
		t.Fatalf("unexpected DSN:\n got %s\nwant %s", got, want)
	}
}

func TestInvalidEnvRejected(t *testing.T) {
	os.Setenv("APP_ENV", "prod-ish")
	defer os.Unsetenv("APP_ENV")

	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error for bad APP_ENV")
	}
}
