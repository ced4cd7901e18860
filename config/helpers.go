package config

import (
	"time"

	"github.com/spf13/viper"
)

// orDefault reads key with get when it is set, otherwise returns def
func orDefault[T any](v *viper.Viper, key string, get func(string) T, def T) T {
	if v.IsSet(key) {
		return get(key)
	}
	return def
}

func getDurationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	return orDefault(v, key, v.GetDuration, def)
}

func getUint32OrDefault(v *viper.Viper, key string, def uint32) uint32 {
	return orDefault(v, key, v.GetUint32, def)
}

func getIntOrDefault(v *viper.Viper, key string, def int) int {
	return orDefault(v, key, v.GetInt, def)
}

func getFloat64OrDefault(v *viper.Viper, key string, def float64) float64 {
	return orDefault(v, key, v.GetFloat64, def)
}
