// Package config reads the persistence and messaging sections of the
// application configuration.
package config

import (
	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	Database *Database `yaml:"database" json:"database"`
	Redis    *Redis    `yaml:"redis" json:"redis"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Database: getDatabaseConfig(v),
		Redis:    getRedisConfigs(v),
	}
}

// Messaging selects and configures the result event publisher
type Messaging struct {
	Driver    string    `json:"driver" yaml:"driver"` // kafka, rabbitmq or empty for none
	Workers   int       `json:"workers" yaml:"workers"`
	QueueSize int       `json:"queue_size" yaml:"queue_size"`
	Kafka     *Kafka    `json:"kafka" yaml:"kafka"`
	RabbitMQ  *RabbitMQ `json:"rabbitmq" yaml:"rabbitmq"`
}

// GetMessagingConfig returns messaging config
func GetMessagingConfig(v *viper.Viper) *Messaging {
	return &Messaging{
		Driver:    v.GetString("messaging.driver"),
		Workers:   v.GetInt("messaging.workers"),
		QueueSize: v.GetInt("messaging.queue_size"),
		Kafka:     getKafkaConfigs(v),
		RabbitMQ:  getRabbitMQConfigs(v),
	}
}
