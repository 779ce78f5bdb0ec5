package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

var currentOS = runtime.GOOS

var ErrUnsafeURL = errors.New("link target looks like a command-line option")

// OpenURL hands url to the system's default handler. The launcher is reaped
// in the background.
func (d *Desktop) OpenURL(url string) error {
	if strings.HasPrefix(url, "-") {
		return fmt.Errorf("open %q: %w", url, ErrUnsafeURL)
	}
	cmd, err := openCommand(d.goos, url)
	if err != nil {
		return err
	}
	if err := d.start(cmd); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go func() {
		if err := d.wait(cmd); err != nil {
			d.log.Debug("link handler exited", slog.String("url", url), slog.Any("err", err))
		}
	}()
	d.log.Info("opened link", slog.String("url", url))
	return nil
}

func openCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return exec.Command("xdg-open", url), nil
	}
	return nil, fmt.Errorf("opening links is not supported on %s", goos)
}
