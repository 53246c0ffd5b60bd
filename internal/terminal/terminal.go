package terminal

import (
	"os"
	"strconv"
	"strings"
)

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 80

// HasTTY reports whether both stdin and stdout are connected to a terminal.
func HasTTY() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// Width returns the terminal width taken from $COLUMNS, or DefaultWidth.
func Width() int {
	return parseWidth(os.Getenv("COLUMNS"))
}

func parseWidth(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 20 {
		return DefaultWidth
	}
	return n
}

func isTerminal(file *os.File) bool {
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
