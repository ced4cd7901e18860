package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "screener")
	v.SetDefault("run_mode", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logger.level", 4)
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.output_file", "")
	v.SetDefault("logger.sentry_level", 2)

	v.SetDefault("data.database.driver", "sqlite")
	v.SetDefault("data.database.source", "file:screener.db?_pragma=foreign_keys(1)")
	v.SetDefault("data.database.logging", false)
	v.SetDefault("data.database.max_idle_conn", 5)
	v.SetDefault("data.database.max_open_conn", 10)
	v.SetDefault("data.database.max_life_time", time.Hour)
	v.SetDefault("data.database.migrate", true)

	v.SetDefault("data.redis.addr", "")
	v.SetDefault("data.redis.username", "")
	v.SetDefault("data.redis.password", "")
	v.SetDefault("data.redis.db", 0)
	v.SetDefault("data.redis.key_prefix", "screener:")
	v.SetDefault("data.redis.pool_size", 10)
	v.SetDefault("data.redis.dial_timeout", 5*time.Second)
	v.SetDefault("data.redis.read_timeout", 3*time.Second)

	v.SetDefault("messaging.driver", "")
	v.SetDefault("messaging.workers", 2)
	v.SetDefault("messaging.queue_size", 256)
	v.SetDefault("messaging.kafka.brokers", []string{})
	v.SetDefault("messaging.kafka.client_id", "screener")
	v.SetDefault("messaging.kafka.topic", "screening.completed")
	v.SetDefault("messaging.kafka.write_timeout", 10*time.Second)
	v.SetDefault("messaging.rabbitmq.url", "")
	v.SetDefault("messaging.rabbitmq.exchange", "screener")
	v.SetDefault("messaging.rabbitmq.connection_timeout", 10*time.Second)
	v.SetDefault("messaging.rabbitmq.heartbeat_interval", 10*time.Second)

	v.SetDefault("market.provider", "file")
	v.SetDefault("market.url", "")
	v.SetDefault("market.file", "configs/bonds.json")
	v.SetDefault("market.records_path", []string{})
	v.SetDefault("market.mapping", map[string]string{})
	v.SetDefault("market.timeout", 30*time.Second)
	v.SetDefault("market.cache_ttl", 300*time.Second)
	v.SetDefault("market.retry_delay", 30*time.Second)
	v.SetDefault("market.auto_refresh", 0)
	v.SetDefault("market.breaker.max_requests", 1)
	v.SetDefault("market.breaker.interval", time.Minute)
	v.SetDefault("market.breaker.timeout", 30*time.Second)
	v.SetDefault("market.breaker.max_failures", 3)

	v.SetDefault("screening.normalize_on_save", true)
	v.SetDefault("screening.default_page_size", 50)
	v.SetDefault("screening.max_page_size", 500)
	v.SetDefault("screening.max_formula_length", 4096)
	v.SetDefault("screening.compile_cache_size", 1<<20)
	v.SetDefault("screening.compile_cache_ttl", time.Hour)

	v.SetDefault("observes.tracer.endpoint", "")
	v.SetDefault("observes.tracer.service_name", "screener")
	v.SetDefault("observes.tracer.sampling_rate", 1.0)
	v.SetDefault("observes.sentry.endpoint", "")
	v.SetDefault("observes.sentry.sample_rate", 1.0)
}
