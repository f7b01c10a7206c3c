package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML config file. Pointer fields distinguish an absent
// key from an explicit false.
type fileConfig struct {
	Heap      string  `yaml:"heap"`
	HeapLimit *uint32 `yaml:"heap_limit"`
	Debug     *bool   `yaml:"debug"`
	LogLevel  string  `yaml:"log_level"`
	Zeroize   *bool   `yaml:"zeroize"`
}

func loadConfig(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}
