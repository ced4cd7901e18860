package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Server HTTP server config struct
type Server struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	CORSOrigins     []string      `json:"cors_origins" yaml:"cors_origins"`
	RateLimit       float64       `json:"rate_limit" yaml:"rate_limit"` // requests per second per client, 0 disables
	Burst           int           `json:"burst" yaml:"burst"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:            v.GetString("server.host"),
		Port:            v.GetInt("server.port"),
		CORSOrigins:     v.GetStringSlice("server.cors_origins"),
		RateLimit:       v.GetFloat64("server.rate_limit"),
		Burst:           v.GetInt("server.burst"),
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
	}
}
