package version

import (
	"fmt"
	"time"
)

// ProtocolVersion описывает формат событий и results-пакета.
// Клиент с другой версией протокола получает отказ при логине.
const ProtocolVersion = 3

var (
	BuildDate   string // YYYY-MM-DD (UTC), задается через -ldflags
	BuildCommit string
	BuildBranch string
)

var buildEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	BuildID    int    `json:"buildId"`
	BuildDate  string `json:"buildDate"`
	Commit     string `json:"commit"`
	Branch     string `json:"branch"`
	Protocol   int    `json:"protocol"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

// CalculateBuildID returns the number of days between the epoch and BuildDate.
func CalculateBuildID() (int, error) {
	return buildIDFor(BuildDate)
}

func buildIDFor(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("build date %s is before epoch", date)
	}

	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info returns structured version information.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		Protocol:  ProtocolVersion,
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build string for the startup banner.
func String() string {
	info := Info()
	if !info.Calculated {
		return fmt.Sprintf("Battlescape build unknown, protocol %d (%s)", info.Protocol, info.Error)
	}

	return fmt.Sprintf("Battlescape build %d (%s) protocol %d commit[%s] branch[%s]",
		info.BuildID,
		info.BuildDate,
		info.Protocol,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
