package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "INDEXGATE"

type Config struct {
	Listen        string         `yaml:"listen"         mapstructure:"listen"`
	MetricsListen string         `yaml:"metrics_listen" mapstructure:"metrics_listen"` // empty disables /metrics
	Log           LogConfig      `yaml:"log"            mapstructure:"log"`
	Authz         AuthzConfig    `yaml:"authz"          mapstructure:"authz"`
	Services      ServicesConfig `yaml:"services"       mapstructure:"services"`
	CORS          CORSConfig     `yaml:"cors"           mapstructure:"cors"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug|info|warn|error
	JSON  bool   `yaml:"json"  mapstructure:"json"`
}

type AuthzConfig struct {
	Backend     string        `yaml:"backend"      mapstructure:"backend"` // remote|fga|static
	Timeout     time.Duration `yaml:"timeout"      mapstructure:"timeout"`
	CacheTTL    time.Duration `yaml:"cache_ttl"    mapstructure:"cache_ttl"` // 0 disables the decision cache
	GuardDelete bool          `yaml:"guard_delete" mapstructure:"guard_delete"`
	Remote      RemoteConfig  `yaml:"remote"       mapstructure:"remote"`
	FGA         FGAConfig     `yaml:"fga"          mapstructure:"fga"`
	Static      StaticConfig  `yaml:"static"       mapstructure:"static"`
}

type RemoteConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Path    string `yaml:"path"     mapstructure:"path"`
}

type FGAConfig struct {
	APIURL   string `yaml:"api_url"   mapstructure:"api_url"`
	StoreID  string `yaml:"store_id"  mapstructure:"store_id"`
	APIToken string `yaml:"api_token" mapstructure:"api_token"`
	ModelID  string `yaml:"model_id"  mapstructure:"model_id"`
	JWKS     string `yaml:"jwks"      mapstructure:"jwks"` // file path or URL
	Issuer   string `yaml:"issuer"    mapstructure:"issuer"`
	Audience string `yaml:"audience"  mapstructure:"audience"`
}

type StaticConfig struct {
	AllowAll bool          `yaml:"allow_all" mapstructure:"allow_all"`
	Grants   []StaticGrant `yaml:"grants"    mapstructure:"grants"`
}

// StaticGrant is a list entry rather than a map key because viper lower-cases
// map keys and credentials are case sensitive.
type StaticGrant struct {
	Credential  string   `yaml:"credential"  mapstructure:"credential"`
	Permissions []string `yaml:"permissions" mapstructure:"permissions"` // e.g. pricing:list
}

type ServicesConfig struct {
	Backend string        `yaml:"backend"  mapstructure:"backend"` // remote|memory|fs
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout"  mapstructure:"timeout"`
	DataDir string        `yaml:"data_dir" mapstructure:"data_dir"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

func ensureDir(p string) error { return os.MkdirAll(p, 0o755) }

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".indexgate"), nil
}

func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

func setDefaults(v *viper.Viper) {
	dataDir := "data"
	if dir, err := Dir(); err == nil {
		dataDir = filepath.Join(dir, "data")
	}

	v.SetDefault("listen", ":8080")
	v.SetDefault("metrics_listen", ":9090")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("authz.backend", "remote")
	v.SetDefault("authz.timeout", "3s")
	v.SetDefault("authz.cache_ttl", "0s")
	v.SetDefault("authz.guard_delete", false)
	v.SetDefault("authz.remote.base_url", "")
	v.SetDefault("authz.remote.path", "/v1/authorize")
	v.SetDefault("authz.fga.api_url", "http://localhost:8080")
	v.SetDefault("authz.fga.store_id", "")
	v.SetDefault("authz.fga.api_token", "")
	v.SetDefault("authz.fga.model_id", "")
	v.SetDefault("authz.fga.jwks", "")
	v.SetDefault("authz.fga.issuer", "")
	v.SetDefault("authz.fga.audience", "")
	v.SetDefault("authz.static.allow_all", false)

	v.SetDefault("services.backend", "remote")
	v.SetDefault("services.base_url", "")
	v.SetDefault("services.timeout", "30s")
	v.SetDefault("services.data_dir", dataDir)

	v.SetDefault("cors.allowed_origins", []string{})
}

// Load reads path (DefaultPath when empty). A missing file yields defaults.
// Env overrides: INDEXGATE_LISTEN, INDEXGATE_AUTHZ_BACKEND,
// INDEXGATE_AUTHZ_REMOTE_BASE_URL, INDEXGATE_SERVICES_BASE_URL, etc.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Authz.Backend {
	case "remote":
		if c.Authz.Remote.BaseURL == "" {
			return errors.New("config: authz.remote.base_url is required for the remote backend")
		}
	case "fga":
		if c.Authz.FGA.StoreID == "" || c.Authz.FGA.JWKS == "" {
			return errors.New("config: authz.fga.store_id and authz.fga.jwks are required for the fga backend")
		}
	case "static":
	default:
		return fmt.Errorf("config: unknown authz.backend %q", c.Authz.Backend)
	}

	switch c.Services.Backend {
	case "remote":
		if c.Services.BaseURL == "" {
			return errors.New("config: services.base_url is required for the remote backend")
		}
	case "memory":
	case "fs":
		if c.Services.DataDir == "" {
			return errors.New("config: services.data_dir is required for the fs backend")
		}
	default:
		return fmt.Errorf("config: unknown services.backend %q", c.Services.Backend)
	}

	if c.Authz.Timeout < 0 || c.Authz.CacheTTL < 0 {
		return errors.New("config: authz durations must not be negative")
	}
	return nil
}

func Save(path string, c *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	grants := make([]map[string]any, 0, len(c.Authz.Static.Grants))
	for _, g := range c.Authz.Static.Grants {
		grants = append(grants, map[string]any{"credential": g.Credential, "permissions": g.Permissions})
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("listen", c.Listen)
	v.Set("metrics_listen", c.MetricsListen)
	v.Set("log.level", c.Log.Level)
	v.Set("log.json", c.Log.JSON)
	v.Set("authz.backend", c.Authz.Backend)
	v.Set("authz.timeout", c.Authz.Timeout.String())
	v.Set("authz.cache_ttl", c.Authz.CacheTTL.String())
	v.Set("authz.guard_delete", c.Authz.GuardDelete)
	v.Set("authz.remote.base_url", c.Authz.Remote.BaseURL)
	v.Set("authz.remote.path", c.Authz.Remote.Path)
	v.Set("authz.fga.api_url", c.Authz.FGA.APIURL)
	v.Set("authz.fga.store_id", c.Authz.FGA.StoreID)
	v.Set("authz.fga.model_id", c.Authz.FGA.ModelID)
	v.Set("authz.fga.jwks", c.Authz.FGA.JWKS)
	v.Set("authz.fga.issuer", c.Authz.FGA.Issuer)
	v.Set("authz.fga.audience", c.Authz.FGA.Audience)
	v.Set("authz.static.allow_all", c.Authz.Static.AllowAll)
	v.Set("authz.static.grants", grants)
	v.Set("services.backend", c.Services.Backend)
	v.Set("services.base_url", c.Services.BaseURL)
	v.Set("services.timeout", c.Services.Timeout.String())
	v.Set("services.data_dir", c.Services.DataDir)
	v.Set("cors.allowed_origins", c.CORS.AllowedOrigins)

	if err := v.WriteConfigAs(path); err != nil {
		return err
	}

	// api tokens stay out of the file; restrict perms anyway
	_ = os.Chmod(path, 0o600)
	return nil
}
