package config

import (
	"time"

	"github.com/spf13/viper"
)

// Redis redis config struct. An empty Addr disables Redis.
type Redis struct {
	Addr        string        `json:"addr" yaml:"addr"`
	Username    string        `json:"username" yaml:"username"`
	Password    string        `json:"password" yaml:"password"`
	Db          int           `json:"db" yaml:"db"`
	KeyPrefix   string        `json:"key_prefix" yaml:"key_prefix"`
	PoolSize    int           `json:"pool_size" yaml:"pool_size"`
	DialTimeout time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`
}

func getRedisConfigs(v *viper.Viper) *Redis {
	return &Redis{
		Addr:        v.GetString("data.redis.addr"),
		Username:    v.GetString("data.redis.username"),
		Password:    v.GetString("data.redis.password"),
		Db:          v.GetInt("data.redis.db"),
		KeyPrefix:   v.GetString("data.redis.key_prefix"),
		PoolSize:    v.GetInt("data.redis.pool_size"),
		DialTimeout: v.GetDuration("data.redis.dial_timeout"),
		ReadTimeout: v.GetDuration("data.redis.read_timeout"),
	}
}
