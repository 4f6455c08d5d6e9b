package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("INDEXGATE_AUTHZ_REMOTE_BASE_URL", "http://themis:8080")
	t.Setenv("INDEXGATE_SERVICES_BASE_URL", "http://verification:8080")
	t.Setenv("INDEXGATE_AUTHZ_TIMEOUT", "750ms")

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Listen)
	assert.Equal(t, "remote", c.Authz.Backend)
	assert.Equal(t, "http://themis:8080", c.Authz.Remote.BaseURL)
	assert.Equal(t, "/v1/authorize", c.Authz.Remote.Path)
	assert.Equal(t, 750*time.Millisecond, c.Authz.Timeout)
	assert.Zero(t, c.Authz.CacheTTL)
	assert.False(t, c.Authz.GuardDelete)
	assert.Equal(t, "http://verification:8080", c.Services.BaseURL)
	assert.Equal(t, 30*time.Second, c.Services.Timeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
listen: ":9999"
authz:
  backend: static
  guard_delete: true
  cache_ttl: 30s
  static:
    grants:
      - credential: Tok-1
        permissions: [pricing:list, pricing:view]
services:
  backend: memory
cors:
  allowed_origins: ["http://localhost:3000"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", c.Listen)
	assert.Equal(t, "static", c.Authz.Backend)
	assert.True(t, c.Authz.GuardDelete)
	assert.Equal(t, 30*time.Second, c.Authz.CacheTTL)
	require.Len(t, c.Authz.Static.Grants, 1)
	assert.Equal(t, "Tok-1", c.Authz.Static.Grants[0].Credential)
	assert.Equal(t, []string{"pricing:list", "pricing:view"}, c.Authz.Static.Grants[0].Permissions)
	assert.Equal(t, "memory", c.Services.Backend)
	assert.Equal(t, []string{"http://localhost:3000"}, c.CORS.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown authz":   "authz: {backend: magic}\nservices: {backend: memory}\n",
		"remote no url":   "authz: {backend: remote}\nservices: {backend: memory}\n",
		"fga no store":    "authz: {backend: fga}\nservices: {backend: memory}\n",
		"unknown service": "authz: {backend: static}\nservices: {backend: postgres}\n",
		"service no url":  "authz: {backend: static}\nservices: {backend: remote}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	in := &Config{
		Listen:        ":8081",
		MetricsListen: "",
		Log:           LogConfig{Level: "debug", JSON: true},
		Authz: AuthzConfig{
			Backend:  "static",
			Timeout:  2 * time.Second,
			CacheTTL: time.Minute,
			Static: StaticConfig{Grants: []StaticGrant{
				{Credential: "tok-1", Permissions: []string{"pricing:list"}},
			}},
		},
		Services: ServicesConfig{Backend: "fs", DataDir: "/tmp/indexgate", Timeout: 5 * time.Second},
	}
	require.NoError(t, Save(path, in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in.Listen, out.Listen)
	assert.Equal(t, "debug", out.Log.Level)
	assert.True(t, out.Log.JSON)
	assert.Equal(t, 2*time.Second, out.Authz.Timeout)
	assert.Equal(t, time.Minute, out.Authz.CacheTTL)
	assert.Equal(t, in.Authz.Static.Grants, out.Authz.Static.Grants)
	assert.Equal(t, "fs", out.Services.Backend)
	assert.Equal(t, "/tmp/indexgate", out.Services.DataDir)
}
