package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/mipsim/machine"
)

// Config describes a machine in a YAML file. Latency overrides are
// keyed by component name.
type Config struct {
	Pipeline        bool           `yaml:"pipeline"`
	ExtendedALU     bool           `yaml:"extended_alu"`
	DataMemoryWords int            `yaml:"data_memory_words"`
	RegisterNames   []string       `yaml:"register_names"`
	Latencies       map[string]int `yaml:"latencies"`
}

// loadConfig reads a YAML machine description. An empty path returns
// the zero config.
func loadConfig(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config")
	}

	return cfg, nil
}

// buildMachine assembles a machine from the config plus the command
// line switches.
func buildMachine(cfg Config, pipeline, extendedALU bool) (*machine.Machine, error) {
	b := machine.MakeBuilder()
	if cfg.Pipeline || pipeline {
		b = b.WithPipeline()
	}
	if cfg.ExtendedALU || extendedALU {
		b = b.WithExtendedALU()
	}
	if cfg.DataMemoryWords > 0 {
		b = b.WithDataMemoryWords(cfg.DataMemoryWords)
	}
	if len(cfg.RegisterNames) > 0 {
		b = b.WithRegisterNames(cfg.RegisterNames)
	}

	m, err := b.Build()
	if err != nil {
		return nil, err
	}

	if len(cfg.Latencies) > 0 {
		dp := m.Datapath()
		for name, latency := range cfg.Latencies {
			c, ok := dp.Component(name)
			if !ok {
				return nil, errors.Errorf("latency override for unknown component %q", name)
			}
			c.SetLatency(latency)
		}
		dp.RecomputeTiming()
	}

	return m, nil
}

// loadProgramFile reads a program of hexadecimal machine words, one
// per line. Blank lines and lines starting with # are skipped.
func loadProgramFile(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening program")
	}
	defer f.Close()

	words := []uint32{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "0x")

		word, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		words = append(words, uint32(word))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading program")
	}

	return words, nil
}
