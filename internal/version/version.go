package version

import "fmt"

var (
	// Version is the semantic version (injected via ldflags at build time)
	Version = "dev"

	// GitCommit is the git commit hash (injected via ldflags)
	GitCommit = "none"

	// BuildDate is the build timestamp (injected via ldflags)
	BuildDate = "unknown"

	// GoVersion is the Go version used to build (injected via ldflags)
	GoVersion = "unknown"
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
	}
}

func String() string {
	return fmt.Sprintf("indexgate %s", Version)
}

func Verbose() string {
	return fmt.Sprintf("indexgate %s (commit: %s, built: %s, go: %s)",
		Version, GitCommit, BuildDate, GoVersion)
}

// UserAgent is sent on calls to the oracle and downstream services.
func UserAgent() string {
	return "indexgate/" + Version
}
