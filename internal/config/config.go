package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Host     string `mapstructure:"DB_HOST"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	DBPort   string `mapstructure:"DB_PORT"`

	ServerPort string `mapstructure:"SERVER_PORT"`

	// Корень хранилища: файлы лежат под <UPLOADS_ROOT>/uploads/<год>/<месяц>/
	UploadsRoot     string `mapstructure:"UPLOADS_ROOT"`
	StorageProvider string `mapstructure:"STORAGE_PROVIDER"` // local | s3

	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3BucketName      string `mapstructure:"S3_BUCKET_NAME"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`

	// Cron-выражение для фоновой сверки хранилища; пустая строка отключает её
	ReconcileSchedule string `mapstructure:"RECONCILE_SCHEDULE"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("STORAGE_PROVIDER", "local")
	viper.SetDefault("UPLOADS_ROOT", "./data")
	viper.SetDefault("RECONCILE_SCHEDULE", "@hourly")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.User == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}

	if cfg.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if cfg.Name == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}

	if cfg.DBPort == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}

	if cfg.ServerPort == "" {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}

	if cfg.StorageProvider == "s3" {
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME is required for the s3 storage provider")
		}
		if cfg.S3Region == "" {
			return nil, fmt.Errorf("S3_REGION is required for the s3 storage provider")
		}
	}

	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.DBPort)
}
