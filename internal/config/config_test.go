package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.Server.Port != "5050" {
		t.Fatalf("server port want 5050 got %s", cfg.Server.Port)
	}
	if cfg.JWT.ExpireHours != 168 {
		t.Fatalf("jwt expire hours want 168 got %d", cfg.JWT.ExpireHours)
	}
	if cfg.Upload.MaxImages != 5 {
		t.Fatalf("upload max images want 5 got %d", cfg.Upload.MaxImages)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("database driver want sqlite got %s", cfg.Database.Driver)
	}
	if cfg.Redis.Enabled || cfg.Queue.Enabled {
		t.Fatalf("redis and queue should be disabled by default")
	}
	if cfg.Server.ReadTimeoutSeconds != 30 || cfg.Server.ShutdownTimeoutSeconds != 10 {
		t.Fatalf("unexpected server timeouts: %+v", cfg.Server)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_DRIVER", " Postgres ")

	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Fatalf("server port want 9090 got %s", cfg.Server.Port)
	}
	if cfg.JWT.SecretKey != "env-secret" {
		t.Fatalf("jwt secret want env-secret got %s", cfg.JWT.SecretKey)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("database driver want postgres got %s", cfg.Database.Driver)
	}
}
