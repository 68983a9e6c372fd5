package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata; override at link time with
// -ldflags "-X bgql/internal/version.GitCommit=...".
var (
	// Version is the plain semantic version, also reported in SARIF output.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric part highlighted; the
// pre-release suffix stays plain. Non-semver strings come back unchanged.
func Colored(enable bool) string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	for _, c := range []*color.Color{majorColor, minorColor, patchColor} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Info is the line printed by `bgql version`.
func Info(enableColor bool) string {
	var sb strings.Builder
	sb.WriteString("bgql ")
	sb.WriteString(Colored(enableColor))
	var meta []string
	if GitCommit != "" {
		meta = append(meta, "commit "+GitCommit)
	}
	if BuildDate != "" {
		meta = append(meta, "built "+BuildDate)
	}
	if len(meta) > 0 {
		sb.WriteString(" (" + strings.Join(meta, ", ") + ")")
	}
	return sb.String()
}
