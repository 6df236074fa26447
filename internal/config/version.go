package config

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

const fallbackVersion = "0.1.0"

var version = sync.OnceValue(computeVersion)

// GetVersion returns the build version, resolved on first use
func GetVersion() string {
	return version()
}

// computeVersion resolves the version. APP_VERSION wins, otherwise the
// VERSION file plus the git commit count is used.
func computeVersion() string {
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	base := readVersionFile("VERSION", "../VERSION")
	if count := gitCommitCount(); count > 0 {
		return base + "." + strconv.Itoa(count)
	}
	return base
}

// readVersionFile returns the first non-empty VERSION file content found
func readVersionFile(paths ...string) string {
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(content)); v != "" {
			return v
		}
	}
	return fallbackVersion
}

func gitCommitCount() int {
	output, err := exec.Command("git", "rev-list", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}
	return count
}
