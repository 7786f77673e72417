package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	MQTT     MQTTConfig
	Pipeline PipelineConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MQTTConfig struct {
	Broker       string
	ClientID     string
	Username     string
	Password     string
	UplinkTopic  string // ChirpStack uplink events subscribed for ingest
	ReadingTopic string // decoded readings published for analytics
	QoS          int
}

type PipelineConfig struct {
	Interval time.Duration // how often the stage runner ticks
	PageSize int           // max uplinks per stage per run
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	viper.SetDefault("PIPELINE_INTERVAL_SECONDS", 30)
	viper.SetDefault("PIPELINE_PAGE_SIZE", 100)
	viper.SetDefault("MQTT_QOS", 1)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		MQTT: MQTTConfig{
			Broker:       viper.GetString("MQTT_BROKER"),
			ClientID:     viper.GetString("MQTT_CLIENT_ID"),
			Username:     viper.GetString("MQTT_USERNAME"),
			Password:     viper.GetString("MQTT_PASSWORD"),
			UplinkTopic:  viper.GetString("MQTT_UPLINK_TOPIC"),
			ReadingTopic: viper.GetString("MQTT_READING_TOPIC"),
			QoS:          viper.GetInt("MQTT_QOS"),
		},
		Pipeline: PipelineConfig{
			Interval: time.Duration(viper.GetInt("PIPELINE_INTERVAL_SECONDS")) * time.Second,
			PageSize: viper.GetInt("PIPELINE_PAGE_SIZE"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
