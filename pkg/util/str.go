package util

import (
	"encoding/hex"
	"strings"
)

// IndentLines indents all the lines with spaces
func IndentLines(lines []string, char string, count int) []string {
	for i := range lines {
		lines[i] = strings.Repeat(char, count) + lines[i]
	}
	return lines
}

// HexDump returns the canonical hex dump of data as lines, without the trailing empty line.
func HexDump(data []byte) []string {
	return strings.Split(strings.TrimSuffix(hex.Dump(data), "\n"), "\n")
}
