package envutil

import (
	"os"
	"strconv"

	"github.com/peerlink/peerlink-backend/internal/platform/logger"
)

func GetEnv(key, defaultVal string, log *logger.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", key, "default", defaultVal)
		}
		return defaultVal
	}
	return val
}

func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", key, "default", defaultVal)
		}
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable is not an integer, using default", "env_var", key, "value", val, "default", defaultVal)
		}
		return defaultVal
	}
	return parsed
}
