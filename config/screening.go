package config

import (
	"time"

	"github.com/spf13/viper"
)

// Screening config struct
type Screening struct {
	NormalizeOnSave  bool          `json:"normalize_on_save" yaml:"normalize_on_save"`
	DefaultPageSize  int           `json:"default_page_size" yaml:"default_page_size"`
	MaxPageSize      int           `json:"max_page_size" yaml:"max_page_size"`
	MaxFormulaLength int           `json:"max_formula_length" yaml:"max_formula_length"`
	CompileCacheSize int64         `json:"compile_cache_size" yaml:"compile_cache_size"`
	CompileCacheTTL  time.Duration `json:"compile_cache_ttl" yaml:"compile_cache_ttl"`
}

func getScreeningConfig(v *viper.Viper) *Screening {
	return &Screening{
		NormalizeOnSave:  v.GetBool("screening.normalize_on_save"),
		DefaultPageSize:  v.GetInt("screening.default_page_size"),
		MaxPageSize:      v.GetInt("screening.max_page_size"),
		MaxFormulaLength: v.GetInt("screening.max_formula_length"),
		CompileCacheSize: v.GetInt64("screening.compile_cache_size"),
		CompileCacheTTL:  v.GetDuration("screening.compile_cache_ttl"),
	}
}
