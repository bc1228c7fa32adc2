package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string
	MaxSessions int

	// Security
	JWTSecret              string
	SessionTokenTTLMinutes int

	// Surface
	SurfaceWidth  float64
	SurfaceHeight float64

	// Layout
	BallCount     int
	BallMinRadius float64
	BallMaxRadius float64

	// Animation
	FrameRate        int
	ClickThresholdMs int

	// Physics
	Friction        float64
	Resilience      float64
	SpeedLimit      float64
	AnimationSpeed  float64
	DragTimeDivisor float64

	// Idle sessions
	IdleTimeoutSeconds     int
	IdleWorkerPollInterval int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Redis (empty disables idle tracking)
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		MaxSessions: getEnvInt("MAX_SESSIONS", 100),

		// Security
		JWTSecret:              getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTokenTTLMinutes: getEnvInt("SESSION_TOKEN_TTL_MINUTES", 120),

		// Surface
		SurfaceWidth:  getEnvFloat("SURFACE_WIDTH", 1100),
		SurfaceHeight: getEnvFloat("SURFACE_HEIGHT", 500),

		// Layout
		BallCount:     getEnvInt("BALL_COUNT", 10),
		BallMinRadius: getEnvFloat("BALL_MIN_RADIUS", 10),
		BallMaxRadius: getEnvFloat("BALL_MAX_RADIUS", 40),

		// Animation
		FrameRate:        getEnvInt("FRAME_RATE", 60),
		ClickThresholdMs: getEnvInt("CLICK_THRESHOLD_MS", 100),

		// Physics
		Friction:        getEnvFloat("PHYSICS_FRICTION", 0.01),
		Resilience:      getEnvFloat("PHYSICS_RESILIENCE", 0.1),
		SpeedLimit:      getEnvFloat("PHYSICS_SPEED_LIMIT", 15),
		AnimationSpeed:  getEnvFloat("PHYSICS_ANIMATION_SPEED", 1),
		DragTimeDivisor: getEnvFloat("PHYSICS_DRAG_DIVISOR", 10),

		// Idle sessions
		IdleTimeoutSeconds:     getEnvInt("IDLE_TIMEOUT_SECONDS", 300),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
