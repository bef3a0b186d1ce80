// Package config resolves where pip lists and segbits databases live and
// which jobs a run covers. It is the only place the environment is read.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables consulted when directories are not configured
const (
	EnvDatabaseDir = "XRAY_DATABASE_DIR"
	EnvDatabase    = "XRAY_DATABASE"
	EnvFuzzersDir  = "XRAY_FUZZERS_DIR"
)

var (
	ErrNoPattern     = errors.New("re is required")
	ErrNoDatabaseDir = fmt.Errorf("db_dir not set and %s/%s not in environment", EnvDatabaseDir, EnvDatabase)
	ErrNoPipDir      = fmt.Errorf("pip_dir not set and %s not in environment", EnvFuzzersDir)
)

// Config holds the settings of a todo run
type Config struct {
	DBDir       string   `toml:"db_dir"`
	PipDir      string   `toml:"pip_dir"`
	PipType     string   `toml:"pip_type"`
	SegType     string   `toml:"seg_type"`
	Sides       []string `toml:"sides"`
	Left        bool     `toml:"l"`
	Right       bool     `toml:"r"`
	Re          string   `toml:"re"`
	ExcludeRe   string   `toml:"exclude_re"`
	NotEndsWith string   `toml:"not_endswith"`
	Strict      bool     `toml:"strict"`
}

// Job is one pip list / database pair
type Job struct {
	Side    string
	PipFile string
	DBFile  string
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		PipType: "pips_int",
		SegType: "int",
		Sides:   []string{"l", "r"},
		Left:    true,
		Right:   true,
	}
}

// Load reads a TOML config file over the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// ResolvePaths fills DBDir and PipDir from the environment when unset.
// getenv is usually os.Getenv.
func (c *Config) ResolvePaths(getenv func(string) string) error {
	if c.DBDir == "" {
		dir, db := getenv(EnvDatabaseDir), getenv(EnvDatabase)
		if dir == "" || db == "" {
			return ErrNoDatabaseDir
		}
		c.DBDir = filepath.Join(dir, db)
	}

	if c.PipDir == "" {
		fuzzers := getenv(EnvFuzzersDir)
		if fuzzers == "" {
			return ErrNoPipDir
		}
		c.PipDir = filepath.Join(fuzzers, "piplist", "build", c.PipType)
	}

	return nil
}

// Validate checks the settings needed to run
func (c *Config) Validate() error {
	if c.Re == "" {
		return ErrNoPattern
	}
	if c.PipType == "" {
		return errors.New("pip_type must not be empty")
	}
	if c.SegType == "" {
		return errors.New("seg_type must not be empty")
	}
	return nil
}

// Jobs expands the configured sides into pip list / database pairs.
// Sides l and r are skipped when Left or Right is false; an empty side
// means the tile type has no side suffix.
func (c *Config) Jobs() []Job {
	var jobs []Job
	for _, side := range c.Sides {
		side = strings.TrimSpace(side)
		if side == "l" && !c.Left {
			continue
		}
		if side == "r" && !c.Right {
			continue
		}

		suffix := ""
		if side != "" {
			suffix = "_" + side
		}

		jobs = append(jobs, Job{
			Side:    side,
			PipFile: filepath.Join(c.PipDir, c.PipType+suffix+".txt"),
			DBFile:  filepath.Join(c.DBDir, "segbits_"+c.SegType+suffix+".db"),
		})
	}
	return jobs
}
