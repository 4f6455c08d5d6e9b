package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TwigBush/indexgate/internal/config"
)

// resetFlags puts globals and persistent flags back to their defaults so tests do not
// bleed state into each other.
func resetFlags(t *testing.T) {
	t.Helper()

	_ = rootCmd.PersistentFlags().Set("output", "json")
	_ = rootCmd.PersistentFlags().Set("show-curl", "false")
	_ = rootCmd.PersistentFlags().Set("gateway-url", "http://localhost:8080")
	_ = rootCmd.PersistentFlags().Set("config", config.DefaultPath())

	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
}

// run executes args and returns what the command wrote.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const staticConfig = `
authz:
  backend: static
  static:
    grants:
      - credential: tok-1
        permissions: [pricing:list]
services:
  backend: memory
`

func TestRootDefaultsAndFlags(t *testing.T) {
	resetFlags(t)

	if got, want := rootCmd.Use, "indexgate"; got != want {
		t.Fatalf("Use = %q, want %q", got, want)
	}
	if !rootCmd.SilenceUsage {
		t.Fatalf("SilenceUsage = false, want true")
	}
	if !rootCmd.SilenceErrors {
		t.Fatalf("SilenceErrors = false, want true")
	}
	if output != "json" {
		t.Fatalf("output default = %q, want %q", output, "json")
	}
	if showCurl {
		t.Fatalf("showCurl default = true, want false")
	}
	if gatewayURL != "http://localhost:8080" {
		t.Fatalf("gatewayURL default = %q", gatewayURL)
	}
	if cfgPath != config.DefaultPath() {
		t.Fatalf("config default = %q, want %q", cfgPath, config.DefaultPath())
	}
	for _, name := range []string{"init", "serve", "check", "ops", "version"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("subcommand %q missing", name)
		}
	}
}

func TestHelpCommandRuns(t *testing.T) {
	resetFlags(t)

	out, err := run(t, "help")
	if err != nil {
		t.Fatalf("help Execute() error = %v", err)
	}
	if !strings.Contains(out, "indexgate") || !strings.Contains(out, "Usage:") {
		t.Fatalf("help output did not contain expected text; got:\n%s", out)
	}
}

func TestExecuteNoArgsPrintsHint(t *testing.T) {
	resetFlags(t)

	out, err := run(t)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Use -h for help") {
		t.Fatalf("expected hint to be printed, got:\n%s", out)
	}
}

func TestOpsListsDeclaredTable(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, staticConfig)

	out, err := run(t, "--config", path, "ops", "--remote=false")
	if err != nil {
		t.Fatalf("ops error = %v", err)
	}
	var ops []struct {
		Kind       string `json:"kind"`
		Permission *struct {
			Action   string `json:"action"`
			Resource string `json:"resource"`
		} `json:"permission"`
	}
	if err := json.Unmarshal([]byte(out), &ops); err != nil {
		t.Fatalf("ops output not JSON: %v\n%s", err, out)
	}
	if len(ops) != 8 {
		t.Fatalf("ops = %d, want 8", len(ops))
	}
	for _, op := range ops {
		if op.Kind == "delete_index" && op.Permission != nil {
			t.Fatalf("delete_index guarded by default")
		}
		if op.Kind == "search" && (op.Permission == nil || op.Permission.Action != "RetailVerification:List") {
			t.Fatalf("search permission = %+v", op.Permission)
		}
	}

	resetFlags(t)
	out, err = run(t, "--config", path, "-o", "table", "ops", "--remote=false")
	if err != nil {
		t.Fatalf("ops table error = %v", err)
	}
	if !strings.Contains(out, "delete_index") || !strings.Contains(out, "(unguarded)") {
		t.Fatalf("table output:\n%s", out)
	}
}

func TestOpsRemote(t *testing.T) {
	resetFlags(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/operations" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"endpoints":[{"method":"DELETE","operation":"delete_index"}]}`))
	}))
	defer srv.Close()

	out, err := run(t, "--gateway-url", srv.URL, "--show-curl", "ops", "--remote")
	if err != nil {
		t.Fatalf("ops --remote error = %v", err)
	}
	if !strings.Contains(out, "curl -i -X GET") || !strings.Contains(out, `"operation": "delete_index"`) {
		t.Fatalf("output:\n%s", out)
	}
}

func TestCheckWithStaticOracle(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, staticConfig)

	cases := []struct {
		args    []string
		outcome string
	}{
		{[]string{"--credential", "tok-1", "--permission", "pricing:list"}, "allowed"},
		{[]string{"--credential", "tok-1", "--permission", "pricing:delete"}, "forbidden"},
		{[]string{"--credential", "", "--permission", "pricing:list"}, "unauthenticated"},
	}
	for _, tc := range cases {
		resetFlags(t)
		out, err := run(t, append([]string{"--config", path, "check"}, tc.args...)...)
		if err != nil {
			t.Fatalf("%v: error = %v", tc.args, err)
		}
		var res checkResult
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("%v: output not JSON: %v\n%s", tc.args, err, out)
		}
		if res.Outcome != tc.outcome {
			t.Fatalf("%v: outcome = %q, want %q", tc.args, res.Outcome, tc.outcome)
		}
	}
}

func TestCheckRejectsUnknownPermission(t *testing.T) {
	resetFlags(t)
	if _, err := run(t, "check", "--credential", "x", "--permission", "pricing:fly"); err == nil {
		t.Fatal("expected error for unknown permission")
	}
}

func TestInitWritesLoadableConfig(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "indexgate.yaml")

	if _, err := run(t, "--config", path, "init", "--dev"); err != nil {
		t.Fatalf("init error = %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Authz.Backend != "static" || cfg.Services.Backend != "fs" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.Authz.Static.Grants) != 1 || len(cfg.Authz.Static.Grants[0].Permissions) != 7 {
		t.Fatalf("grants = %+v", cfg.Authz.Static.Grants)
	}
}

func TestVersion(t *testing.T) {
	resetFlags(t)
	out, err := run(t, "version")
	if err != nil || !strings.HasPrefix(out, "indexgate ") {
		t.Fatalf("version = %q, %v", out, err)
	}
}
