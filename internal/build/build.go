package build

import "fmt"

var (
	// Version додатку (встановлюється через ldflags)
	Version = "dev"

	// GitCommit хеш коміту (встановлюється через ldflags)
	GitCommit = "unknown"

	// BuildTime час збірки (встановлюється через ldflags)
	BuildTime = "unknown"
)

// Info повертає інформацію про білд для CLI та /health
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_time": BuildTime,
	}
}

// UserAgent повертає User-Agent для вихідних запитів до Google
func UserAgent() string {
	return fmt.Sprintf("google-login/%s (%s)", Version, GitCommit)
}
