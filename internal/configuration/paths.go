package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// HomeEnv overrides the location of the application data directory.
const HomeEnv = "OFFLOAD_HOME"

// AppPaths are the locations of the application data.
type AppPaths struct {
	Home     string
	Settings string
	Logs     string
	Reports  string
}

// NewAppPaths returns the [AppPaths] below home.
func NewAppPaths(home string) AppPaths {
	return AppPaths{
		Home:     home,
		Settings: filepath.Join(home, "settings.env"),
		Logs:     filepath.Join(home, "logs"),
		Reports:  filepath.Join(home, "reports"),
	}
}

// DefaultAppPaths returns the [AppPaths] below $OFFLOAD_HOME, or below the
// user configuration directory when it is not set.
func DefaultAppPaths() (AppPaths, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return NewAppPaths(home), nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return AppPaths{}, fmt.Errorf("(config-paths) failed to get user config dir: %w", err)
	}

	return NewAppPaths(filepath.Join(base, "offload")), nil
}

// Ensure creates the application data directories.
func (p AppPaths) Ensure() error {
	for _, dir := range []string{p.Home, p.Logs, p.Reports} {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
			return fmt.Errorf("(config-paths) failed to create %s: %w", dir, err)
		}
	}

	return nil
}

// LogFile returns the path of the log file for a run started at t.
func (p AppPaths) LogFile(t time.Time) string {
	return filepath.Join(p.Logs, t.Format("0601021504")+"_offload.log")
}
