package clipboard

import (
	"errors"
	"testing"
)

func TestIsAvailable(t *testing.T) {
	// Availability depends on the system; it must agree with getClipboardCommand.
	_, err := getClipboardCommand()
	if IsAvailable() != (err == nil) {
		t.Errorf("IsAvailable() = %v but getClipboardCommand() error = %v", IsAvailable(), err)
	}
}

func TestCopy(t *testing.T) {
	if !IsAvailable() {
		err := Copy("x")
		if !errors.Is(err, ErrClipboardUnavailable) {
			t.Errorf("Copy() without clipboard error = %v, want ErrClipboardUnavailable", err)
		}
		t.Skip("clipboard not available on this system")
	}

	// A headless X11 session can have xclip installed with no display.
	if err := Copy("@article{k1,\n  title={A B}\n}"); err != nil {
		t.Skipf("clipboard command present but not usable: %v", err)
	}
}

func TestGetClipboardCommand(t *testing.T) {
	cmd, err := getClipboardCommand()
	if err != nil {
		if cmd != nil {
			t.Error("getClipboardCommand returned both command and error")
		}
		return
	}
	if cmd == nil {
		t.Error("getClipboardCommand returned nil command with no error")
	}
}
