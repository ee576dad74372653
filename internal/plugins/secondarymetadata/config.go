package secondarymetadata

import "fmt"

// Config holds the plugin's settings. DataDirectory may be left empty
// when the directory is instead supplied via the IO parameter
// DirectoryParameterKey; whichever is present at run time wins, with the
// IO parameter taking precedence since it reflects the upstream scraper's
// freshest output.
type Config struct {
	DataDirectory string
	KeyPrefix     string
	DefaultArch   string
}

// NewConfig validates cfg and fills in DefaultArch if empty.
func NewConfig(cfg Config) (Config, error) {
	if cfg.KeyPrefix == "" {
		return Config{}, fmt.Errorf("empty key_prefix")
	}
	if cfg.DefaultArch == "" {
		cfg.DefaultArch = DefaultArch
	}
	return cfg, nil
}
