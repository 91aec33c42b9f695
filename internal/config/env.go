package config

import (
	"github.com/Mark0025/peterental/internal/backend"
	"github.com/Mark0025/peterental/internal/session"
	"github.com/Mark0025/peterental/internal/vapi"
	"github.com/Mark0025/peterental/pkg/database"
	"github.com/Mark0025/peterental/pkg/logging"
	"github.com/Mark0025/peterental/pkg/storage"
)

var loggingEnv = &logging.Env{
	Level:  "LOGGING_LEVEL",
	Format: "LOGGING_FORMAT",
	Output: "LOGGING_OUTPUT",
}

var storageEnv = &storage.Env{
	Driver:        "STORAGE_DRIVER",
	BasePath:      "STORAGE_BASE_PATH",
	MaxObjectSize: "STORAGE_MAX_OBJECT_SIZE",
	SQLitePath:    "STORAGE_SQLITE_PATH",
	RedisAddr:     "STORAGE_REDIS_ADDR",
	RedisPassword: "STORAGE_REDIS_PASSWORD",
	RedisDB:       "STORAGE_REDIS_DB",
}

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	SSLMode:         "DATABASE_SSL_MODE",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
}

var authEnv = &session.Env{
	JWTSecret:  "AUTH_JWT_SECRET",
	Issuer:     "AUTH_ISSUER",
	UserClaim:  "AUTH_USER_CLAIM",
	UserHeader: "AUTH_USER_HEADER",
	Required:   "AUTH_REQUIRED",
}

var vapiEnv = &vapi.Env{
	BaseURL:       "VAPI_BASE_URL",
	APIKey:        "VAPI_API_KEY",
	ModelProvider: "VAPI_MODEL_PROVIDER",
	VoiceProvider: "VAPI_VOICE_PROVIDER",
	Timeout:       "VAPI_TIMEOUT",
	RequiredMerge: "VAPI_REQUIRED_MERGE",
}

var backendEnv = &backend.Env{
	BaseURL:           "BACKEND_BASE_URL",
	WebhookPath:       "BACKEND_WEBHOOK_PATH",
	Token:             "BACKEND_TOKEN",
	OAuthTokenURL:     "BACKEND_OAUTH_TOKEN_URL",
	OAuthClientID:     "BACKEND_OAUTH_CLIENT_ID",
	OAuthClientSecret: "BACKEND_OAUTH_CLIENT_SECRET",
}
