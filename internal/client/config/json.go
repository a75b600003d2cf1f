package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/imgbox/internal/flagx"
	"github.com/dmitrijs2005/imgbox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerAddr string         `json:"server_addr"`
	Timeout    timex.Duration `json:"timeout"`
}

// parseJson overlays cfg with the file named by -c/-config. Missing fields
// keep their current values. Read or unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerAddr != "" {
		cfg.ServerAddr = jc.ServerAddr
	}
	if jc.Timeout.Duration > 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
}
