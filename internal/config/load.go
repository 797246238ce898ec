package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the conventional request file name.
const DefaultConfigFilename = "junup.yaml"

// fileRequest is the YAML shape of a request file. The reboot timeout is
// expressed in seconds, matching the timeout flag and env variable.
type fileRequest struct {
	Host            string `yaml:"host"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Image           string `yaml:"image"`
	LocalPath       string `yaml:"local_path"`
	RemotePath      string `yaml:"remote_path"`
	ExpectedVersion string `yaml:"expected_version"`
	TimeoutSeconds  int    `yaml:"timeout"`
}

// LoadFile reads a request from a YAML file. Fields left empty in the file
// stay empty; defaults are applied later by Resolve.
func LoadFile(path string) (Request, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw fileRequest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Request{}, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return Request{
		Host:            raw.Host,
		User:            raw.User,
		Password:        raw.Password,
		ImageName:       raw.Image,
		LocalDir:        raw.LocalPath,
		RemotePath:      raw.RemotePath,
		ExpectedVersion: raw.ExpectedVersion,
		RebootTimeout:   time.Duration(raw.TimeoutSeconds) * time.Second,
	}, nil
}
