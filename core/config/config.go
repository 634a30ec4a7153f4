package config

import (
	_ "embed"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"

	// DefaultPrompt shows the working directory then a $ (or # for root).
	DefaultPrompt = `\w\$ `
)

// Configuration is the on-disk gush configuration.
type Configuration struct {
	configDir string

	// Banner is printed once when an interactive session starts.
	Banner string `json:"banner"`

	// Prompt is the prompt template; \u, \h, \w and \$ are expanded.
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile is the command history database, relative to the
	// configuration directory unless absolute.
	HistoryFile string `json:"history_file" validate:"required"`

	// DefaultPath seeds PATH when the environment doesn't provide one.
	DefaultPath string `json:"default_path" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// HistoryPath returns the path of the history database.
func (c *Configuration) HistoryPath() string {
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	return filepath.Join(c.configDir, c.HistoryFile)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
