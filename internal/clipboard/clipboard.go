// Package clipboard copies citations to the system clipboard via the
// platform's clipboard command.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard command is found.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// linuxCommands are tried in order: Wayland first, then X11.
var linuxCommands = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// IsAvailable reports whether a clipboard command exists on this system.
func IsAvailable() bool {
	_, err := getClipboardCommand()
	return err == nil
}

// Copy writes text to the system clipboard.
func Copy(text string) error {
	cmd, err := getClipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func getClipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy"), nil
		}
	case "windows":
		if _, err := exec.LookPath("clip"); err == nil {
			return exec.Command("clip"), nil
		}
	case "linux", "freebsd", "openbsd":
		for _, argv := range linuxCommands {
			if _, err := exec.LookPath(argv[0]); err == nil {
				return exec.Command(argv[0], argv[1:]...), nil
			}
		}
	}
	return nil, ErrClipboardUnavailable
}
