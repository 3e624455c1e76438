package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	ProviderBaseURL     string
	ProviderAccessToken string
	ProviderSenderID    string

	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioUseSSL        bool
	MinioBucket        string
	MinioPublicBaseURL string
	MediaKeyRoot       string

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	FetchLeaseTTL time.Duration
}

const defaultFetchLeaseTTL = 300 // seconds

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	required := []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"PROVIDER_BASE_URL",
		"PROVIDER_ACCESS_TOKEN",
		"PROVIDER_SENDER_ID",
	}
	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	viper.SetDefault("MEDIA_KEY_ROOT", "media")
	viper.SetDefault("FETCH_LEASE_TTL", defaultFetchLeaseTTL)

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		ProviderBaseURL:     viper.GetString("PROVIDER_BASE_URL"),
		ProviderAccessToken: viper.GetString("PROVIDER_ACCESS_TOKEN"),
		ProviderSenderID:    viper.GetString("PROVIDER_SENDER_ID"),

		// MinIO settings are optional as a group: without them the service
		// runs in degraded mode (no persistent storage on the outbound path,
		// inbound materialization unavailable).
		MinioEndpoint:      viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:     viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:     viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:        viper.GetBool("MINIO_USE_SSL"),
		MinioBucket:        viper.GetString("MINIO_BUCKET"),
		MinioPublicBaseURL: viper.GetString("MINIO_PUBLIC_BASE_URL"),
		MediaKeyRoot:       viper.GetString("MEDIA_KEY_ROOT"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		JWTSecret: viper.GetString("JWT_SECRET"),

		FetchLeaseTTL: time.Duration(viper.GetInt("FETCH_LEASE_TTL")) * time.Second,
	}, nil
}
