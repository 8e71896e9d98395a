// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// EnvJSONOverride names the environment variable whose JSON content is merged
// over the TOML file.
const EnvJSONOverride = "GO_OIDC_BRIDGE_CONFIG_JSON"

var structValidator = validator.New()

// Default returns the configuration every file is decoded on top of.
func Default() Config {
	return Config{
		Title: "GoOIDC-Bridge",
		DB: DB{
			Type: DBTypeSQLite,
			Path: "./data/bridge.db",
		},
		Webserver: Webserver{
			Port:         8080,
			ShutDownTime: 5, //nolint:mnd
			CheckAlive:   "/checkalive",
			Session: Session{
				ExpiryTime: 12 * time.Hour, //nolint:mnd
				Storage:    SessionStorageDB,
				Table:      "sessions",
				Redis:      Redis{Addr: "localhost:6379", Prefix: "session:"},
			},
		},
		Auth: Auth{Backends: []string{BackendLocal, BackendOIDC}},
		OIDC: OIDC{
			SignAlgo:                  "RS256",
			Scopes:                    "openid email profile",
			StoreAccessToken:          true,
			StoreIDToken:              true,
			RenewIDTokenExpirySeconds: 3600, //nolint:mnd
			CreateUser:                true,
			UseNonce:                  true,
			LoginRedirectURL:          "/dashboard",
			LogoutRedirectURL:         "/",
			ProviderName:              "OIDC",
		},
		Organisation: Organisation{
			Slug:      "default-org",
			Name:      "Default Organisation",
			AdminTeam: "Admin Team",
		},
	}
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             = Default()
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(filepath.Join(path, "main.toml"), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvJSONOverride)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	c.OIDC.AdminList = ParseIdentifierList(c.OIDC.AdminUsers)
	c.OIDC.SuperuserList = ParseIdentifierList(c.OIDC.Superusers)

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvJSONOverride)
	}

	return c, nil
}

// ParseIdentifierList splits a comma separated identifier list. Items are
// trimmed, empty items are dropped and the order is kept.
func ParseIdentifierList(raw string) []string {
	var out []string

	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// Redacted returns a copy with credentials blanked, for dumping.
func (c Config) Redacted() Config {
	const mask = "********"

	if c.DB.Password != "" {
		c.DB.Password = mask
	}

	if c.OIDC.ClientSecret != "" {
		c.OIDC.ClientSecret = mask
	}

	if c.Webserver.Session.Redis.Password != "" {
		c.Webserver.Session.Redis.Password = mask
	}

	return c
}

// validate the settings the daemon can not start without.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if err := structValidator.Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	if len(c.Auth.Backends) == 0 {
		return errors.Wrap(ErrNoAuthBackend, invalidErrMessage)
	}

	if c.DB.Type == DBTypeSQLite && c.DB.Path == "" {
		return errors.Wrap(ErrDBPathEmpty, invalidErrMessage)
	}

	if c.Auth.Has(BackendOIDC) {
		if c.OIDC.ClientID == "" {
			return errors.Wrap(ErrOIDCClientIDEmpty, invalidErrMessage)
		}

		if c.OIDC.DiscoveryEndpoint == "" && !c.OIDC.HasManualEndpoints() {
			return errors.Wrap(ErrOIDCNoEndpoints, invalidErrMessage)
		}
	}

	return nil
}
