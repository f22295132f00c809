package git

import (
	"strconv"
	"strings"
)

// ParsePorcelainStatus parses `git status --porcelain=v2 --branch` output.
// Porcelain v2 uses '.' for an unchanged side; it is mapped to ' ' here so
// callers can treat blank as "clean" and '?' as untracked.
func ParsePorcelainStatus(output string) *RawStatus {
	status := &RawStatus{}

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}

		// Header lines (start with '#')
		if strings.HasPrefix(line, "# ") {
			parts := strings.Fields(line)
			if len(parts) < 3 {
				continue
			}
			switch parts[1] {
			case "branch.head":
				if parts[2] != "(detached)" {
					status.Current = parts[2]
				}
			case "branch.upstream":
				status.Tracking = parts[2]
			case "branch.ab":
				// format is +<ahead> -<behind>
				if len(parts) > 2 {
					status.Ahead, _ = strconv.Atoi(strings.TrimPrefix(parts[2], "+"))
				}
				if len(parts) > 3 {
					status.Behind, _ = strconv.Atoi(strings.TrimPrefix(parts[3], "-"))
				}
			}
			continue
		}

		// File status lines. Paths may contain spaces, so split only the
		// fixed leading fields.
		switch line[0] {
		case '?': // Untracked: "? <path>"
			parts := strings.SplitN(line, " ", 2)
			if len(parts) < 2 {
				continue
			}
			status.Files = append(status.Files, FileStatusEntry{
				Path:         parts[1],
				IndexState:   '?',
				WorkingState: '?',
			})
		case '1': // Ordinary change: "1 XY sub mH mI mW hH hI <path>"
			parts := strings.SplitN(line, " ", 9)
			if len(parts) < 9 || len(parts[1]) < 2 {
				continue
			}
			status.Files = append(status.Files, FileStatusEntry{
				Path:         parts[8],
				IndexState:   mapPorcelainState(parts[1][0]),
				WorkingState: mapPorcelainState(parts[1][1]),
			})
		case '2': // Rename/copy: "2 XY sub mH mI mW hH hI Xscore <path>\t<origPath>"
			parts := strings.SplitN(line, " ", 10)
			if len(parts) < 10 || len(parts[1]) < 2 {
				continue
			}
			path := parts[9]
			if idx := strings.IndexByte(path, '\t'); idx >= 0 {
				path = path[:idx]
			}
			status.Files = append(status.Files, FileStatusEntry{
				Path:         path,
				IndexState:   mapPorcelainState(parts[1][0]),
				WorkingState: mapPorcelainState(parts[1][1]),
			})
		case 'u': // Unmerged: "u XY sub m1 m2 m3 mW h1 h2 h3 <path>"
			parts := strings.SplitN(line, " ", 11)
			if len(parts) < 11 {
				continue
			}
			status.Files = append(status.Files, FileStatusEntry{
				Path:         parts[10],
				IndexState:   'U',
				WorkingState: 'U',
			})
		}
	}

	return status
}

// mapPorcelainState converts a porcelain v2 state byte to the classic
// status code, with '.' meaning clean.
func mapPorcelainState(b byte) byte {
	if b == '.' {
		return ' '
	}
	return b
}
