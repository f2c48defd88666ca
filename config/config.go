// Package config loads countyd's HCL configuration and can export the
// defaults as a starting point.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Source is one CSV or Excel input to import at startup. The block label
// is informational; the table name still derives from the file name.
type Source struct {
	Name string `hcl:",label"`
	Path string `hcl:"path"`
}

// Config represents the application configuration.
type Config struct {
	ListenAddr   string   `hcl:"listen_addr,optional"`
	DatabasePath string   `hcl:"database_path,optional"`
	MaxClients   int      `hcl:"max_clients,optional"`
	LogLevel     string   `hcl:"log_level,optional"`
	LogFormat    string   `hcl:"log_format,optional"`
	Sources      []Source `hcl:"source,block"`
}

// DefaultConfig returns the default configuration: the two county-health
// CSVs next to the binary, served on :8080.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:   ":8080",
		DatabasePath: "data.db",
		MaxClients:   64,
		LogLevel:     "info",
		LogFormat:    "text",
		Sources: []Source{
			{Name: "zip_county", Path: "zip_county.csv"},
			{Name: "county_health_rankings", Path: "county_health_rankings.csv"},
		},
	}
}

// Load reads the configuration from the given HCL file. Unset attributes
// keep their defaults; source blocks replace the default list entirely.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	cfg := DefaultConfig()
	defaults := cfg.Sources
	cfg.Sources = nil

	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaults
	}
	return cfg, nil
}

// Export writes the configuration to the specified file in HCL format.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("listen_addr", cty.StringVal(cfg.ListenAddr))
	root.SetAttributeValue("database_path", cty.StringVal(cfg.DatabasePath))
	root.SetAttributeValue("max_clients", cty.NumberIntVal(int64(cfg.MaxClients)))
	root.SetAttributeValue("log_level", cty.StringVal(cfg.LogLevel))
	root.SetAttributeValue("log_format", cty.StringVal(cfg.LogFormat))

	for _, src := range cfg.Sources {
		root.AppendNewline()
		block := root.AppendNewBlock("source", []string{src.Name})
		block.Body().SetAttributeValue("path", cty.StringVal(src.Path))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(f.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}

	return nil
}
