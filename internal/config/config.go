package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	UploadDir   string
	RabbitMQURL string
}

// Load builds Config from the environment with sensible defaults.
// A local .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MYSQL_DSN", "user:password@tcp(localhost:3306)/storefront?charset=utf8mb4&parseTime=True&loc=Local")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("JWT_ISSUER", "storefront")
	viper.SetDefault("JWT_AUDIENCE", "storefront-clients")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.AutomaticEnv()

	return &Config{
		ServerPort:  viper.GetString("SERVER_PORT"),
		MySQLDSN:    viper.GetString("MYSQL_DSN"),
		RedisAddr:   viper.GetString("REDIS_ADDR"),
		RedisDB:     viper.GetInt("REDIS_DB"),
		RedisPass:   viper.GetString("REDIS_PASSWORD"),
		JWTSecret:   viper.GetString("JWT_SECRET"),
		JWTIssuer:   viper.GetString("JWT_ISSUER"),
		JWTAudience: viper.GetString("JWT_AUDIENCE"),
		UploadDir:   viper.GetString("UPLOAD_DIR"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
	}
}
