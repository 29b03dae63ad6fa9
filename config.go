package main

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/murkmap/chunker/scan"
)

//go:embed chunker.schema.json
var configSchemaSource string

var configSchema = jsonschema.MustCompileString("chunker.schema.json", configSchemaSource)

// Config holds the scan bounds. Both limits are required; nothing is defaulted.
type Config struct {
	ScanLimitX int32 `json:"scan_limit_x" yaml:"scan_limit_x"`
	ScanLimitZ int32 `json:"scan_limit_z" yaml:"scan_limit_z"`
}

func (c Config) Bounds() scan.Bounds {
	return scan.Bounds{LimitX: c.ScanLimitX, LimitZ: c.ScanLimitZ}
}

// LoadConfig reads the config at path. Files ending in .yaml or .yml are read as YAML, anything else
// as JSON. The document is validated before it is decoded.
func LoadConfig(path string) (cfg Config, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if b, err = yamlToJSON(b); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err = dec.Decode(&doc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err = configSchema.Validate(doc); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err = json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func yamlToJSON(b []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
