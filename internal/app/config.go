package app

import (
	"time"

	"github.com/peerlink/peerlink-backend/internal/platform/envutil"
	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowOrigins    string
	RedisAddr       string
}

func LoadConfig(log *logger.Logger) Config {
	port := envutil.GetEnv("PORT", "8080", log)
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	allowOrigins := envutil.GetEnv("CORS_ALLOW_ORIGINS", "", log)
	redisAddr := envutil.GetEnv("REDIS_ADDR", "", log)
	return Config{
		Port:            port,
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		AllowOrigins:    allowOrigins,
		RedisAddr:       redisAddr,
	}
}
