// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"io/ioutil"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
)

// EnableDebug switches on debug-only logging and pin count assertions.
var EnableDebug = false

const (
	// invalid page id
	InvalidPageID = -1
	// invalid transaction id
	InvalidTxnID = -1
	// size of a data page in byte
	PageSize                     = 4096
	BufferPoolMaxFrameNumForTest = 32
	// attribute count limit of a row descriptor (fits the 2 byte natts field of tuples)
	MaxTupleAttributeNumber = 1664
	// alignment of the reserved prefix of copied minimal tuples
	MaxAlign = 8
)

var ActiveLogKindSetting LogLevel = INFO | WARN | ERROR | FATAL

type SlotOffset uintptr // slot offset type

// Config holds the knobs which can be changed without rebuilding.
type Config struct {
	BufferPoolFrames  int64  `toml:"buffer_pool_frames"`
	LogLevel          string `toml:"log_level"`
	Debug             bool   `toml:"debug"`
	DeadlockTimeoutMS int64  `toml:"deadlock_timeout_ms"`
}

func DefaultConfig() *Config {
	return &Config{
		BufferPoolFrames:  BufferPoolMaxFrameNumForTest,
		LogLevel:          "info",
		Debug:             false,
		DeadlockTimeoutMS: 30000,
	}
}

// ParseConfig reads a TOML document. Keys which are absent keep their
// default value.
func ParseConfig(data []byte) (*Config, error) {
	parsed := Config{}
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg := DefaultConfig()
	if parsed.BufferPoolFrames != 0 {
		cfg.BufferPoolFrames = parsed.BufferPoolFrames
	}
	if parsed.LogLevel != "" {
		cfg.LogLevel = parsed.LogLevel
	}
	if parsed.DeadlockTimeoutMS != 0 {
		cfg.DeadlockTimeoutMS = parsed.DeadlockTimeoutMS
	}
	cfg.Debug = parsed.Debug

	if cfg.BufferPoolFrames < 0 {
		return nil, errors.Errorf("buffer_pool_frames must be positive: %d", cfg.BufferPoolFrames)
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

// Apply installs the process wide parts of cfg: debug switch, log level and
// the deadlock detector timeout used by latches.
func (cfg *Config) Apply() {
	EnableDebug = cfg.Debug
	if cfg.Debug {
		ActiveLogKindSetting |= DEBUGGING | PIN_COUNT_ASSERT
	}
	InitLogger(cfg.LogLevel, nil)
	deadlock.Opts.DeadlockTimeout = time.Duration(cfg.DeadlockTimeoutMS) * time.Millisecond
}
