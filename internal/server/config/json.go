package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/idprov/internal/flagx"
	"github.com/dmitrijs2005/idprov/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "5m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; its fields are copied into the runtime Config.
type JsonConfig struct {
	DatabaseDSN       string         `json:"database_dsn"`
	DefaultRoleName   string         `json:"default_role_name"`
	AdminName         string         `json:"admin_name"`
	AdminLogin        string         `json:"admin_login"`
	AdminPassword     string         `json:"admin_password"`
	ReconcileInterval timex.Duration `json:"reconcile_interval"`
	OrphanGracePeriod timex.Duration `json:"orphan_grace_period"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3Timeout         timex.Duration `json:"s3_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config command-line flags into the provided Config. If neither flag
// is set, no file is loaded. If the file cannot be read or contains invalid
// JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.DefaultRoleName = c.DefaultRoleName
	config.AdminName = c.AdminName
	config.AdminLogin = c.AdminLogin
	config.AdminPassword = c.AdminPassword
	config.ReconcileInterval = time.Duration(c.ReconcileInterval.Duration)
	config.OrphanGracePeriod = time.Duration(c.OrphanGracePeriod.Duration)
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.S3Timeout = time.Duration(c.S3Timeout.Duration)
}
