package helpers

import "strings"

// SplitLines splits newline-delimited input into lines, trimming surrounding
// whitespace and dropping empty lines. License code bulk entry is delimited
// this way.
func SplitLines(input string) []string {
	var out []string
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// FirstDuplicate returns the first value that appears more than once in
// lines, and whether one was found.
func FirstDuplicate(lines []string) (string, bool) {
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if seen[line] {
			return line, true
		}
		seen[line] = true
	}
	return "", false
}
