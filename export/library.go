package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	intImage "github.com/gogpu/memoji/internal/image"
)

// ErrClosed is reported by a closed Library.
var ErrClosed = errors.New("export: library closed")

// CatalogName is the file name of the asset catalog inside the library.
const CatalogName = "library.db"

// assetMode is the permission of saved asset files.
const assetMode os.FileMode = 0o644

const librarySchema = `
CREATE TABLE IF NOT EXISTS assets (
    id INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    created_at INTEGER NOT NULL  -- UnixNano
);

CREATE INDEX IF NOT EXISTS idx_assets_created ON assets(created_at);
`

// Asset is one saved image.
type Asset struct {
	ID        int64
	Name      string
	Width     int
	Height    int
	CreatedAt time.Time
}

// Library is a directory-backed photo library. Each export is written as an
// image file and recorded in a SQLite catalog.
type Library struct {
	dir  string
	opts libraryOptions

	mu     sync.Mutex
	db     *sql.DB
	closed bool
	seq    int
}

// OpenLibrary opens the library in dir, creating the directory and its
// catalog as needed.
func OpenLibrary(dir string, opts ...LibraryOption) (*Library, error) {
	o := defaultLibraryOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create library: %w", err)
	}

	dsn := filepath.Join(dir, CatalogName) +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("export: open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("export: open catalog: %w", err)
	}
	if _, err := db.Exec(librarySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("export: create catalog schema: %w", err)
	}

	o.logger.Debug("export: library opened", "dir", dir)
	return &Library{dir: dir, opts: o, db: db}, nil
}

// Dir returns the library directory.
func (l *Library) Dir() string {
	return l.dir
}

// Export implements Sink.
func (l *Library) Export(ctx context.Context, img image.Image, h Handler) {
	run(h, func() error {
		_, err := l.Save(ctx, img)
		return err
	})
}

// Save writes img to the library and returns the new asset.
func (l *Library) Save(ctx context.Context, img image.Image) (Asset, error) {
	if img == nil {
		return Asset{}, ErrNilImage
	}
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return Asset{}, ErrClosed
	}

	now := l.opts.now()
	l.seq++
	asset := Asset{
		Name:      l.assetName(now, l.seq),
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		CreatedAt: now,
	}

	path := filepath.Join(l.dir, asset.Name)
	if err := l.writeFile(path, img); err != nil {
		return Asset{}, err
	}

	err := l.db.QueryRowContext(ctx,
		"INSERT INTO assets (name, width, height, created_at) VALUES (?, ?, ?, ?) RETURNING id",
		asset.Name, asset.Width, asset.Height, now.UnixNano()).Scan(&asset.ID)
	if err != nil {
		_ = os.Remove(path)
		return Asset{}, fmt.Errorf("export: record asset: %w", err)
	}

	l.opts.logger.Info("export: asset saved", "name", asset.Name, "width", asset.Width, "height", asset.Height)
	return asset, nil
}

func (l *Library) assetName(t time.Time, seq int) string {
	ext := ".png"
	if l.opts.jpeg {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s-%s-%04d%s", l.opts.prefix, t.UTC().Format("20060102-150405.000000000"), seq, ext)
}

// writeFile encodes img next to path and renames it into place so readers
// never see a partial file.
func (l *Library) writeFile(path string, img image.Image) (err error) {
	f, err := os.CreateTemp(l.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("export: create file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if l.opts.jpeg {
		err = intImage.EncodeJPEG(f, img, l.opts.quality)
	} else {
		err = intImage.EncodePNG(f, img)
	}
	if err != nil {
		return err
	}
	if err = f.Chmod(assetMode); err != nil {
		return fmt.Errorf("export: chmod file: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("export: sync file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("export: close file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("export: rename file: %w", err)
	}
	return nil
}

// Assets lists the catalog, oldest first.
func (l *Library) Assets(ctx context.Context) ([]Asset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}

	rows, err := l.db.QueryContext(ctx,
		"SELECT id, name, width, height, created_at FROM assets ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("export: list assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var a Asset
		var created int64
		if err := rows.Scan(&a.ID, &a.Name, &a.Width, &a.Height, &created); err != nil {
			return nil, fmt.Errorf("export: scan asset: %w", err)
		}
		a.CreatedAt = time.Unix(0, created)
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("export: list assets: %w", err)
	}
	return assets, nil
}

// Close closes the catalog. Later exports fail with ErrClosed.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("export: close catalog: %w", err)
	}
	l.opts.logger.Debug("export: library closed", "dir", l.dir)
	return nil
}
