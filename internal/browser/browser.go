// Package browser opens bookmarks in the system browser.
package browser

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var ErrNoURL = errors.New("bookmark has no url")

type launchCommand struct {
	command string
	args    []string
}

// Open starts the browser for rawURL and returns without waiting for it.
// $BROWSER, when set, is used instead of the platform opener.
func Open(rawURL string) error {
	cmd, err := buildCommand(runtime.GOOS, os.Getenv("BROWSER"), rawURL)
	if err != nil {
		return err
	}

	c := exec.Command(cmd.command, cmd.args...)
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", rawURL, err)
	}
	go func() { _ = c.Wait() }()
	return nil
}

func buildCommand(goos, override, rawURL string) (launchCommand, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return launchCommand{}, ErrNoURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return launchCommand{}, fmt.Errorf("not an absolute url: %q", rawURL)
	}

	if fields := strings.Fields(override); len(fields) > 0 {
		return launchCommand{command: fields[0], args: append(fields[1:], rawURL)}, nil
	}

	switch goos {
	case "darwin":
		return launchCommand{command: "open", args: []string{rawURL}}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return launchCommand{command: "xdg-open", args: []string{rawURL}}, nil
	case "windows":
		return launchCommand{command: "rundll32", args: []string{"url.dll,FileProtocolHandler", rawURL}}, nil
	default:
		return launchCommand{}, fmt.Errorf("unsupported operating system: %s", goos)
	}
}
