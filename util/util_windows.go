package util

import (
	"os/exec"
)

func isTTY(fd uintptr) bool {
	// no ANSI coloring on Windows
	return false
}

func EnsureChildShutdown(cmd *exec.Cmd, sig int) {
}
