package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openLibrary(t *testing.T, dir string, opts ...LibraryOption) *Library {
	t.Helper()
	lib, err := OpenLibrary(dir, opts...)
	if err != nil {
		t.Fatalf("OpenLibrary() error = %v", err)
	}
	t.Cleanup(func() { _ = lib.Close() })
	return lib
}

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func TestLibrarySaveAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "photos")
	lib := openLibrary(t, dir, WithClock(fixedClock()))
	ctx := context.Background()

	for range 2 {
		r := wait(t, Await(ctx, lib, testImage()))
		if !r.OK() {
			t.Fatalf("export failed: %v", r.Err)
		}
	}

	assets, err := lib.Assets(ctx)
	if err != nil {
		t.Fatalf("Assets() error = %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("len(assets) = %d, want 2", len(assets))
	}
	if !assets[0].CreatedAt.Before(assets[1].CreatedAt) {
		t.Error("assets not ordered by creation time")
	}
	if assets[0].ID <= 0 || assets[1].ID <= assets[0].ID {
		t.Errorf("asset IDs = %d, %d; want positive and increasing", assets[0].ID, assets[1].ID)
	}
	for _, a := range assets {
		if a.Width != 8 || a.Height != 6 {
			t.Errorf("asset %s size = %dx%d, want 8x6", a.Name, a.Width, a.Height)
		}
		if !strings.HasPrefix(a.Name, "memoji-") || !strings.HasSuffix(a.Name, ".png") {
			t.Errorf("asset name = %q", a.Name)
		}
		info, err := os.Stat(filepath.Join(dir, a.Name))
		if err != nil {
			t.Fatalf("stat asset: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o644 {
			t.Errorf("asset %s mode = %o, want 644", a.Name, perm)
		}
		f, err := os.Open(filepath.Join(dir, a.Name))
		if err != nil {
			t.Fatalf("asset file: %v", err)
		}
		img, err := png.Decode(f)
		_ = f.Close()
		if err != nil {
			t.Fatalf("asset %s is not PNG: %v", a.Name, err)
		}
		if img.Bounds().Dx() != 8 {
			t.Errorf("decoded width = %d", img.Bounds().Dx())
		}
	}
}

func TestLibrarySaveReturnsRecordedID(t *testing.T) {
	lib := openLibrary(t, t.TempDir())
	ctx := context.Background()

	seen := make(map[int64]bool)
	for range 3 {
		asset, err := lib.Save(ctx, testImage())
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if asset.ID <= 0 || seen[asset.ID] {
			t.Fatalf("Save() ID = %d, want a fresh positive ID", asset.ID)
		}
		seen[asset.ID] = true
	}

	assets, err := lib.Assets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range assets {
		if !seen[a.ID] {
			t.Errorf("listed ID %d was not returned by Save", a.ID)
		}
	}
}

func TestLibraryNoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	lib := openLibrary(t, dir)
	if _, err := lib.Save(context.Background(), testImage()); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLibraryReopen(t *testing.T) {
	dir := t.TempDir()
	lib, err := OpenLibrary(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Save(context.Background(), testImage()); err != nil {
		t.Fatal(err)
	}
	if err := lib.Close(); err != nil {
		t.Fatal(err)
	}

	again := openLibrary(t, dir)
	assets, err := again.Assets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 1 {
		t.Errorf("len(assets) after reopen = %d, want 1", len(assets))
	}
}

func TestLibraryClosed(t *testing.T) {
	lib, err := OpenLibrary(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := lib.Close(); err != nil {
		t.Fatal(err)
	}
	if err := lib.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	r := wait(t, Await(context.Background(), lib, testImage()))
	if !errors.Is(r.Err, ErrClosed) {
		t.Errorf("export after close: Err = %v, want ErrClosed", r.Err)
	}
	if _, err := lib.Assets(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Assets after close: error = %v, want ErrClosed", err)
	}
}

func TestLibraryRejects(t *testing.T) {
	lib := openLibrary(t, t.TempDir())

	if _, err := lib.Save(context.Background(), nil); !errors.Is(err, ErrNilImage) {
		t.Errorf("nil image: error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lib.Save(ctx, testImage()); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: error = %v", err)
	}

	assets, err := lib.Assets(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 0 {
		t.Errorf("rejected saves were recorded: %v", assets)
	}
}

func TestLibraryPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	lib := openLibrary(t, dir)
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	r := wait(t, Await(context.Background(), lib, testImage()))
	if r.OK() {
		t.Fatal("save into read-only directory succeeded")
	}
	if got := Reason(r.Err); got != "permission denied" {
		t.Errorf("Reason = %q, want permission denied", got)
	}
}

func TestLibraryJPEG(t *testing.T) {
	dir := t.TempDir()
	lib := openLibrary(t, dir, WithJPEG(90), WithPrefix("sticker"))
	a, err := lib.Save(context.Background(), testImage())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(a.Name, "sticker-") || !strings.HasSuffix(a.Name, ".jpg") {
		t.Errorf("name = %q", a.Name)
	}
	data, err := os.ReadFile(filepath.Join(dir, a.Name))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("asset is not JPEG: %v", err)
	}
}

func TestLibraryLogsSave(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	lib := openLibrary(t, t.TempDir(), WithLogger(logger))
	if _, err := lib.Save(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "asset saved") {
		t.Errorf("log = %q, want asset saved", buf.String())
	}
}
