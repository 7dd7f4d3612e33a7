package cmd

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/noc-sim/noc-sim/noc"
)

// loadConfig reads and strict-decodes path into a noc.Config, falling
// back to noc.DefaultConfig when path is empty. Strict field checking
// (KnownFields(true)) matches the teacher's cmd/default_config.go: a
// typoed YAML key is a fatal config error, not a silently ignored field.
func loadConfig(path string) *noc.Config {
	if path == "" {
		return noc.DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("failed to read config %s: %v", path, err)
	}

	cfg := noc.DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		logrus.Fatalf("failed to parse config %s: %v", path, err)
	}
	return cfg
}
