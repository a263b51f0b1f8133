package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional arbor.yaml project file. Flags override any
// value set here.
type Config struct {
	// Definitions lists the behavior definition files, in parse order.
	Definitions []string `yaml:"definitions"`

	// Root names the default root block, overriding the definition's
	// own root directive.
	Root string `yaml:"root,omitempty"`

	Redis struct {
		// Addr is the redis host:port carrying debug snapshots.
		Addr string `yaml:"addr"`
		// Channel is the pub/sub channel name.
		Channel string `yaml:"channel,omitempty"`
	} `yaml:"redis"`

	// Listen is the optional address for the HTTP observation server.
	Listen string `yaml:"listen,omitempty"`
}

// DefaultConfigFile is looked up in the working directory when no
// explicit --config flag is given.
const DefaultConfigFile = "arbor.yaml"

// LoadConfig reads a project config file. A missing default file is not
// an error; a missing explicit file is.
func LoadConfig(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}
