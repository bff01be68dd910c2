// Package editor launches the user's preferred text editor.
package editor

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/fmcheck/internal/errors"
)

// Streams are the terminal the editor runs attached to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's own stdin, stdout, and stderr.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Open runs the editor on path and waits for it to exit.
// $EDITOR and $VISUAL may carry arguments, e.g. "code --wait".
func Open(path string, s Streams) error {
	argv := strings.Fields(detectEditor())
	argv = append(argv, path)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = s.In
	cmd.Stdout = s.Out
	cmd.Stderr = s.Err

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// detectEditor returns the editor command to use.
// Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := strings.TrimSpace(os.Getenv("EDITOR")); editor != "" {
		return editor
	}
	if visual := strings.TrimSpace(os.Getenv("VISUAL")); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
