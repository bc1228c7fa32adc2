package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "BALL_COUNT", "PHYSICS_SPEED_LIMIT", "REDIS_URL", "FRAME_RATE"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BallCount != 10 {
		t.Errorf("BallCount = %d, want 10", cfg.BallCount)
	}
	if cfg.SpeedLimit != 15 || cfg.Friction != 0.01 || cfg.Resilience != 0.1 {
		t.Errorf("physics defaults = %v/%v/%v", cfg.SpeedLimit, cfg.Friction, cfg.Resilience)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("FrameRate = %d, want 60", cfg.FrameRate)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BALL_COUNT", "25")
	t.Setenv("SURFACE_WIDTH", "640.5")
	t.Setenv("PHYSICS_FRICTION", "0.05")
	t.Setenv("MAX_SESSIONS", "not-a-number")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.BallCount != 25 {
		t.Errorf("BallCount = %d", cfg.BallCount)
	}
	if cfg.SurfaceWidth != 640.5 {
		t.Errorf("SurfaceWidth = %v", cfg.SurfaceWidth)
	}
	if cfg.Friction != 0.05 {
		t.Errorf("Friction = %v", cfg.Friction)
	}
	if cfg.MaxSessions != 100 {
		t.Errorf("invalid MAX_SESSIONS should fall back to 100, got %d", cfg.MaxSessions)
	}
}
