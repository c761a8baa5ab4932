package config

import (
	"fmt"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

type Config struct {
	ListenAddr  string   `hcl:"listen_addr" env:"LISTEN_ADDR" default:":8080"`
	MetricsAddr string   `hcl:"metrics_addr" env:"METRICS_ADDR" default:":9163"`
	APIKey      string   `hcl:"api_key" env:"API_KEY"`
	BlockedTags []string `hcl:"blocked_tags" env:"BLOCKED_TAGS"`
	DevelMode   bool     `hcl:"devel_mode" env:"DEVEL_MODE"`
}

// Load reads the configuration from HCL files and TGRSS_* environment
// variables. When no path is given, ./config.hcl and ./config.local.hcl are
// tried and both are optional.
func Load(path string) (*Config, error) {
	files := []string{"./config.hcl", "./config.local.hcl"}
	if path != "" {
		files = []string{path}
	}

	var config Config
	loader := aconfig.LoaderFor(&config, aconfig.Config{
		EnvPrefix:          "TGRSS",
		SkipFlags:          true,
		Files:              files,
		FailOnFileNotFound: path != "",
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return nil, fmt.Errorf("failed to load the configuration: %w", err)
	}

	return &config, nil
}
