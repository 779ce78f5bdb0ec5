package platform

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2"

	"bluedoc/internal/pointer"
)

func testDesktop(goos string, start func(*exec.Cmd) error) *Desktop {
	d := NewDesktop(slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.goos = goos
	d.start = start
	d.wait = func(*exec.Cmd) error { return nil }
	return d
}

func TestOpenURLCommandPerOS(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{goos: "linux", want: []string{"xdg-open", "https://example.com"}},
		{goos: "darwin", want: []string{"open", "https://example.com"}},
		{goos: "windows", want: []string{"rundll32", "url.dll,FileProtocolHandler", "https://example.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.goos, func(t *testing.T) {
			var got []string
			d := testDesktop(tc.goos, func(cmd *exec.Cmd) error {
				got = cmd.Args
				return nil
			})
			if err := d.OpenURL("https://example.com"); err != nil {
				t.Fatalf("OpenURL failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("command mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpenURLErrors(t *testing.T) {
	d := testDesktop("plan9", func(*exec.Cmd) error { return nil })
	if err := d.OpenURL("https://example.com"); err == nil {
		t.Fatalf("expected unsupported OS error")
	}

	boom := errors.New("boom")
	d = testDesktop("linux", func(*exec.Cmd) error { return boom })
	if err := d.OpenURL("https://example.com"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
}

func TestOpenURLRefusesOptionLikeTargets(t *testing.T) {
	started := false
	d := testDesktop("linux", func(*exec.Cmd) error {
		started = true
		return nil
	})
	if err := d.OpenURL("--help"); !errors.Is(err, ErrUnsafeURL) {
		t.Fatalf("expected ErrUnsafeURL, got %v", err)
	}
	if started {
		t.Fatalf("launcher started for an option-like target")
	}
}

func TestOpenURLReapsLauncher(t *testing.T) {
	reaped := make(chan []string, 1)
	d := testDesktop("linux", func(*exec.Cmd) error { return nil })
	d.wait = func(cmd *exec.Cmd) error {
		reaped <- cmd.Args
		return nil
	}
	if err := d.OpenURL("file:///tmp/notes.txt"); err != nil {
		t.Fatalf("OpenURL failed: %v", err)
	}
	select {
	case args := <-reaped:
		if diff := cmp.Diff([]string{"xdg-open", "file:///tmp/notes.txt"}, args); diff != "" {
			t.Fatalf("reaped command mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("launcher was not reaped")
	}
}

func TestOpenURLFailedStartIsNotReaped(t *testing.T) {
	d := testDesktop("linux", func(*exec.Cmd) error { return errors.New("boom") })
	d.wait = func(*exec.Cmd) error {
		t.Errorf("wait called after failed start")
		return nil
	}
	if err := d.OpenURL("https://example.com"); err == nil {
		t.Fatalf("expected start error")
	}
}

func TestSetCursorMapsShapes(t *testing.T) {
	d := testDesktop("linux", nil)
	var shapes []ebiten.CursorShapeType
	d.shape = func(s ebiten.CursorShapeType) { shapes = append(shapes, s) }
	d.SetCursor(pointer.CursorPointer)
	d.SetCursor(pointer.CursorText)
	d.SetCursor(pointer.CursorDefault)

	want := []ebiten.CursorShapeType{ebiten.CursorShapePointer, ebiten.CursorShapeText, ebiten.CursorShapeDefault}
	if diff := cmp.Diff(want, shapes); diff != "" {
		t.Fatalf("shapes mismatch (-want +got):\n%s", diff)
	}
}

func TestStageDropsCopiesFiles(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	fsys := fstest.MapFS{
		"a.png":       {Data: []byte("first")},
		"b.jpg":       {Data: []byte("second")},
		"folder/c.gi": {Data: []byte("nested")},
	}
	paths, err := StageDrops(fsys)
	if err != nil {
		t.Fatalf("StageDrops failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 staged files, got %v", paths)
	}
	for i, want := range []string{"first", "second"} {
		got, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Fatalf("staged file %d = %q, want %q", i, got, want)
		}
		if !filepath.IsAbs(paths[i]) {
			t.Fatalf("staged path not absolute: %s", paths[i])
		}
	}
}

func TestFileURL(t *testing.T) {
	if runtime.GOOS == "windows" {
		if got := FileURL(`C:\pics\a b.png`); got != "file:///C:/pics/a%20b.png" {
			t.Fatalf("FileURL = %s", got)
		}
		return
	}
	if got := FileURL("/pics/a b.png"); got != "file:///pics/a%20b.png" {
		t.Fatalf("FileURL = %s", got)
	}
}

func TestDownloadsDirOverride(t *testing.T) {
	if got := DownloadsDir("/custom"); got != "/custom" {
		t.Fatalf("DownloadsDir = %s", got)
	}
	if DownloadsDir("") == "" {
		t.Fatalf("DownloadsDir has no fallback")
	}
}

func TestDialogBuilders(t *testing.T) {
	save := saveDialog("/home/me/Downloads")
	if save.Dlg.Title != "Save File As" {
		t.Fatalf("save title = %q", save.Dlg.Title)
	}
	if save.StartFile != DefaultFileName || save.StartDir != "/home/me/Downloads" {
		t.Fatalf("save start = %q in %q", save.StartFile, save.StartDir)
	}
	if open := openDialog(""); open.Dlg.Title != "Open File" || open.StartDir != "" {
		t.Fatalf("open dialog = %q in %q", open.Dlg.Title, open.StartDir)
	}
}

func TestCheckPath(t *testing.T) {
	if _, err := checkPath("", nil); !IsCancelled(err) {
		t.Fatalf("empty path should count as cancelled, got %v", err)
	}
	if got, err := checkPath("a/../b.txt", nil); err != nil || got != "b.txt" {
		t.Fatalf("checkPath = %q, %v", got, err)
	}
}
