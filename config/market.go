package config

import (
	"time"

	"github.com/spf13/viper"
)

// Market bond data source config struct
type Market struct {
	Provider    string            `json:"provider" yaml:"provider"` // http or file
	URL         string            `json:"url" yaml:"url"`
	File        string            `json:"file" yaml:"file"`
	RecordsPath []string          `json:"records_path" yaml:"records_path"` // JSON path to the record array
	Mapping     map[string]string `json:"mapping" yaml:"mapping"`           // bond field -> source column
	Timeout     time.Duration     `json:"timeout" yaml:"timeout"`
	CacheTTL    time.Duration     `json:"cache_ttl" yaml:"cache_ttl"`
	RetryDelay  time.Duration     `json:"retry_delay" yaml:"retry_delay"`   // fallback data is served this long before refetching
	AutoRefresh time.Duration     `json:"auto_refresh" yaml:"auto_refresh"` // 0 disables
	Breaker     *Breaker          `json:"breaker" yaml:"breaker"`
}

// Breaker circuit breaker config struct
type Breaker struct {
	MaxRequests uint32        `json:"max_requests" yaml:"max_requests"`
	Interval    time.Duration `json:"interval" yaml:"interval"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	MaxFailures uint32        `json:"max_failures" yaml:"max_failures"`
}

func getMarketConfig(v *viper.Viper) *Market {
	return &Market{
		Provider:    v.GetString("market.provider"),
		URL:         v.GetString("market.url"),
		File:        v.GetString("market.file"),
		RecordsPath: v.GetStringSlice("market.records_path"),
		Mapping:     v.GetStringMapString("market.mapping"),
		Timeout:     v.GetDuration("market.timeout"),
		CacheTTL:    v.GetDuration("market.cache_ttl"),
		RetryDelay:  v.GetDuration("market.retry_delay"),
		AutoRefresh: v.GetDuration("market.auto_refresh"),
		Breaker: &Breaker{
			MaxRequests: getUint32OrDefault(v, "market.breaker.max_requests", 1),
			Interval:    v.GetDuration("market.breaker.interval"),
			Timeout:     v.GetDuration("market.breaker.timeout"),
			MaxFailures: getUint32OrDefault(v, "market.breaker.max_failures", 3),
		},
	}
}
