package config

import (
	"time"

	"github.com/spf13/viper"
)

// RabbitMQ rabbitmq config struct
type RabbitMQ struct {
	URL               string        `json:"url" yaml:"url"`
	Exchange          string        `json:"exchange" yaml:"exchange"`
	ConnectionTimeout time.Duration `json:"connection_timeout" yaml:"connection_timeout"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval" yaml:"heartbeat_interval"`
}

// getRabbitMQConfigs reads RabbitMQ configurations
func getRabbitMQConfigs(v *viper.Viper) *RabbitMQ {
	return &RabbitMQ{
		URL:               v.GetString("messaging.rabbitmq.url"),
		Exchange:          v.GetString("messaging.rabbitmq.exchange"),
		ConnectionTimeout: v.GetDuration("messaging.rabbitmq.connection_timeout"),
		HeartbeatInterval: v.GetDuration("messaging.rabbitmq.heartbeat_interval"),
	}
}
