package harness

import (
	"regexp"
	"strings"
)

// unsafePatterns are compiled heuristics for destructive shell operations.
// The classifier is deliberately conservative: a dropped safe command costs
// a manual gate run, while a kept destructive command can destroy a machine.
var unsafePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// Recursive forced deletion of root-ish paths (rm -rf /, rm -fr /*,
	// rm -r -f /home, sudo rm -rf / ...).
	regexp.MustCompile(`(?i)\brm\s+(-[a-z]*\s+)*-[a-z]*[rf][a-z]*\s+(-[a-z]*\s+)*(/|/\*|~|\$home)(\s|$|/\*)`),

	// Deleting whole top-level system directories.
	regexp.MustCompile(`(?i)\brm\s+(-[a-z]*\s+)*(/bin|/boot|/etc|/usr|/var|/home)(\s|$|/)`),

	// Writing raw devices or wiping disks.
	regexp.MustCompile(`(?i)\bdd\s+.*\bof=/dev/`),
	regexp.MustCompile(`(?i)\bmkfs(\.[a-z0-9]+)?\b`),
	regexp.MustCompile(`(?i)>\s*/dev/(sd|nvme|hd)[a-z0-9]*`),

	// World-writable permissions on the filesystem root.
	regexp.MustCompile(`(?i)\bch(mod|own)\s+(-[a-z]*\s+)*.*\s+/(\s|$)`),

	// Fork bomb.
	regexp.MustCompile(`:\(\)\s*\{\s*:\|:&\s*\}\s*;?\s*:`),

	// Piping a remote script straight into a shell.
	regexp.MustCompile(`(?i)\b(curl|wget)\b[^|;]*\|\s*(sudo\s+)?(ba|z|da)?sh\b`),

	// Rewriting history or force-pushing over shared branches.
	regexp.MustCompile(`(?i)\bgit\s+push\s+.*(--force\b|-f\b)`),

	// Shutting down or rebooting the host.
	regexp.MustCompile(`(?i)\b(shutdown|reboot|halt|poweroff)\b`),
}

// IsUnsafeCommand reports whether a gate command matches the destructive
// command heuristics and must be dropped from the harness.
func IsUnsafeCommand(command string) bool {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return false
	}
	for _, pattern := range unsafePatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}
