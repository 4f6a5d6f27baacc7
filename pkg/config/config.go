// Package config loads the tool configuration from config.json and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/limaJavier/lzcup/pkg/logger"
	"github.com/mitchellh/mapstructure"
)

const FileName = "config.json"

type SolverConfig struct {
	ClingoPath   string        `mapstructure:"clingoPath"`
	EncodingPath string        `mapstructure:"encodingPath"`
	CancelGrace  time.Duration `mapstructure:"cancelGrace"`
}

type OutputConfig struct {
	Dir         string `mapstructure:"dir"`
	Snapshots   bool   `mapstructure:"snapshots"`
	PostgresDSN string `mapstructure:"postgresDSN"`
}

type Config struct {
	InstanceDir string        `mapstructure:"instanceDir"`
	Solver      SolverConfig  `mapstructure:"solver"`
	Output      OutputConfig  `mapstructure:"output"`
	Log         logger.Config `mapstructure:"log"`
}

func Default() Config {
	return Config{
		InstanceDir: "data/instances",
		Solver: SolverConfig{
			ClingoPath:   "clingo",
			EncodingPath: "lzcup.lp",
			CancelGrace:  5 * time.Second,
		},
		Output: OutputConfig{
			Dir: "results",
		},
		Log: logger.DefaultConfig(),
	}
}

// Load reads the file at filePath over the defaults and applies environment overrides.
// An empty filePath skips the file.
func Load(filePath string) (Config, error) {
	cfg := Default()

	if filePath != "" {
		bytes, err := os.ReadFile(filePath)
		if err != nil {
			return Config{}, apperrors.Wrap(err, apperrors.CodeInvalidConfig, "cannot read config file").WithField("file", filePath)
		}

		var inputJson map[string]any
		if err := json.Unmarshal(bytes, &inputJson); err != nil {
			return Config{}, apperrors.Wrap(err, apperrors.CodeInvalidConfig, "cannot parse config file").WithField("file", filePath)
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
			Result:     &cfg,
		})
		if err != nil {
			return Config{}, fmt.Errorf("cannot build config decoder: %w", err)
		}
		if err := decoder.Decode(inputJson); err != nil {
			return Config{}, apperrors.Wrap(err, apperrors.CodeInvalidConfig, "cannot decode config file").WithField("file", filePath)
		}
	}

	applyEnv(&cfg)

	if cfg.Solver.CancelGrace <= 0 {
		return Config{}, apperrors.InvalidConfig("solver.cancelGrace", cfg.Solver.CancelGrace, "must be positive")
	}
	return cfg, nil
}

// Locate returns explicit when set, otherwise the config.json next to the executable
// or in the working directory, otherwise "".
func Locate(explicit string) string {
	if explicit != "" {
		return explicit
	}

	candidates := []string{FileName}
	if execPath, err := os.Executable(); err == nil {
		candidates = append([]string{path.Join(path.Dir(execPath), FileName)}, candidates...)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func applyEnv(cfg *Config) {
	cfg.Solver.ClingoPath = getEnv("LZCUP_CLINGO_PATH", cfg.Solver.ClingoPath)
	cfg.Solver.EncodingPath = getEnv("LZCUP_ENCODING_PATH", cfg.Solver.EncodingPath)
	cfg.Solver.CancelGrace = getEnvDuration("LZCUP_CANCEL_GRACE", cfg.Solver.CancelGrace)
	cfg.InstanceDir = getEnv("LZCUP_INSTANCE_DIR", cfg.InstanceDir)
	cfg.Output.Dir = getEnv("LZCUP_OUTPUT_DIR", cfg.Output.Dir)
	cfg.Output.Snapshots = getEnvBool("LZCUP_SNAPSHOTS", cfg.Output.Snapshots)
	cfg.Output.PostgresDSN = getEnv("LZCUP_POSTGRES_DSN", cfg.Output.PostgresDSN)
	cfg.Log.Level = getEnv("LZCUP_LOG_LEVEL", cfg.Log.Level)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
