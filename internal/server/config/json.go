package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/imgbox/internal/flagx"
	"github.com/dmitrijs2005/imgbox/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
// Fields missing from the file keep their current values.
type JsonConfig struct {
	HTTPAddr       string         `json:"http_addr"`
	DBKind         string         `json:"db_kind"`
	DBUser         string         `json:"db_user"`
	DBPassword     string         `json:"db_password"`
	DBHost         string         `json:"db_host"`
	DBName         string         `json:"db_name"`
	DatabaseDSN    string         `json:"database_dsn"`
	UploadDir      string         `json:"upload_dir"`
	MaxUploadSize  int64          `json:"max_upload_size"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
	OTelEndpoint   string         `json:"otel_endpoint"`
}

// parseJson loads the file named by -c/-config in args (or $IMGBOX_CONFIG)
// and copies every non-zero field into config. With no file named it does
// nothing. An unreadable file or invalid JSON panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DBKind, c.DBKind)
	setString(&config.DBUser, c.DBUser)
	setString(&config.DBPassword, c.DBPassword)
	setString(&config.DBHost, c.DBHost)
	setString(&config.DBName, c.DBName)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.OTelEndpoint, c.OTelEndpoint)
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
