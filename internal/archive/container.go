package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// MaxEntrySize caps the decompressed size of a single container entry.
const MaxEntrySize = 32 << 20

// zipMagic is the local file header signature that starts every zip file.
var zipMagic = []byte("PK\x03\x04")

// Entry is one named file inside a container.
type Entry struct {
	Name string
	Data []byte
	// Err is set by Unpack when the entry exists but could not be read.
	Err error
}

// Container packs several entries into one blob. Supported reports whether
// the implementation can actually do so; codecs fall back to bare documents
// when it cannot.
type Container interface {
	Supported() bool
	Pack(ctx context.Context, entries []Entry) ([]byte, error)
	Unpack(ctx context.Context, data []byte) ([]Entry, error)
}

// ZipContainer stores entries in a deflate-compressed zip file.
type ZipContainer struct {
	// Modified stamps every entry; zero means the current time.
	Modified time.Time
}

var _ Container = ZipContainer{}

// Supported implements Container.
func (ZipContainer) Supported() bool { return true }

// Pack implements Container.
func (z ZipContainer) Pack(ctx context.Context, entries []Entry) ([]byte, error) {
	modified := z.Modified
	if modified.IsZero() {
		modified = time.Now()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish zip: %w", err)
	}
	return buf.Bytes(), nil
}

// Unpack implements Container. Directories and files without a .json
// extension are skipped. Entries are returned in archive order.
func (ZipContainer) Unpack(ctx context.Context, data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".json") {
			continue
		}
		content, err := readEntry(f)
		entries = append(entries, Entry{Name: f.Name, Data: content, Err: err})
	}
	return entries, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	content, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > MaxEntrySize {
		return nil, fmt.Errorf("entry exceeds %d bytes", MaxEntrySize)
	}
	return content, nil
}

// NoContainer is used when zip support is switched off.
type NoContainer struct{}

var _ Container = NoContainer{}

// Supported implements Container.
func (NoContainer) Supported() bool { return false }

// Pack implements Container.
func (NoContainer) Pack(context.Context, []Entry) ([]byte, error) {
	return nil, ErrContainerUnsupported
}

// Unpack implements Container.
func (NoContainer) Unpack(context.Context, []byte) ([]Entry, error) {
	return nil, ErrContainerUnsupported
}

// IsContainer reports whether data starts with a zip signature.
func IsContainer(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}
