package security

import "regexp"

// denyPatterns are compiled regular expressions that match dangerous shell
// commands. Each pattern targets a specific class of destructive operation.
var denyPatterns = []*regexp.Regexp{
	// Recursive force-delete from root: rm -rf /, rm -fr /
	regexp.MustCompile(`\brm\s+(-[^\s]*)?-r[^\s]*f[^\s]*\s+/\s*$`),
	regexp.MustCompile(`\brm\s+(-[^\s]*)?-f[^\s]*r[^\s]*\s+/\s*$`),
	regexp.MustCompile(`\brm\s+-rf\s+/\b`),
	regexp.MustCompile(`\brm\s+-fr\s+/\b`),
	regexp.MustCompile(`\brm\s+-rf\s+\*`),

	// dd with input source (could overwrite anything)
	regexp.MustCompile(`\bdd\s+if=`),

	// Fork bombs
	regexp.MustCompile(`:\(\)\s*\{\s*:\|:\s*&\s*\}\s*;`),
	regexp.MustCompile(`\.\(\)\s*\{\s*\.\|\.\s*&\s*\}\s*;`),

	// System power control
	regexp.MustCompile(`\b(shutdown|reboot|poweroff|halt|init\s+[06])\b`),

	// Filesystem creation / formatting
	regexp.MustCompile(`\b(mkfs|mkfs\.\w+|format)\b`),

	// Writing directly to block devices
	regexp.MustCompile(`>\s*/dev/sd`),
	regexp.MustCompile(`>\s*/dev/nvme`),
	regexp.MustCompile(`>\s*/dev/vd`),
	regexp.MustCompile(`>\s*/dev/hd`),
	regexp.MustCompile(`>\s*/dev/mmcblk`),

	// Recursive permission changes on root
	regexp.MustCompile(`\bchmod\s+-R\s+\d+\s+/\s*$`),
	regexp.MustCompile(`\bchown\s+-R\s+\S+\s+/\s*$`),

	// Wiping partition tables
	regexp.MustCompile(`\bwipefs\b.*-a\b`),
	regexp.MustCompile(`\bsgdisk\b.*--zap-all\b`),

	// Filling disks
	regexp.MustCompile(`\byes\b.*>\s*/dev/`),
}

// BlockedCommand reports whether command matches a deny pattern, and which
// pattern matched.
func BlockedCommand(command string) (bool, string) {
	for _, pat := range denyPatterns {
		if pat.MatchString(command) {
			return true, pat.String()
		}
	}
	return false, ""
}
