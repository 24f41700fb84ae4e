package test

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config tunes the end-to-end scenarios from the environment, so slow
// CI runners can stretch the timeouts without touching the tests.
type Config struct {
	// E2E_FRAME_TIMEOUT bounds how long a scenario waits for one frame
	FrameTimeout time.Duration `envconfig:"E2E_FRAME_TIMEOUT" default:"3s"`
	// E2E_BUFFER_SIZE is the per-connection event buffer of the stack under test
	BufferSize int `envconfig:"E2E_BUFFER_SIZE" default:"64"`
	// E2E_HISTORY_LIMIT caps history queries like the production default
	HistoryLimit int `envconfig:"E2E_HISTORY_LIMIT" default:"100"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
