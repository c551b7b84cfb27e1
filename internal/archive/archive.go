// Package archive extracts the two text streams of a replay archive: a zip
// container holding one gzip-compressed state stream and one gzip-compressed
// action stream.
package archive

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// DefaultMaxMemberSize is the decompressed size limit used when Options leaves it unset.
const DefaultMaxMemberSize = 256 << 20

var (
	ErrUnexpectedArchiveLayout = errors.New("unexpected replay archive layout")
	ErrMemberTooLarge          = errors.New("replay archive member too large")
)

// Options controls extraction.
type Options struct {
	// MaxMemberSize is the largest decompressed member accepted, in bytes.
	MaxMemberSize int64
}

func (o Options) maxMemberSize() int64 {
	if o.MaxMemberSize <= 0 {
		return DefaultMaxMemberSize
	}
	return o.MaxMemberSize
}

// Members holds the decompressed text of both archive members.
type Members struct {
	State       string
	Actions     string
	StateName   string
	ActionsName string
}

// isActionStream reports whether the entry holds the action stream. Action
// stream entries are named with a leading "a".
func isActionStream(name string) bool {
	return strings.HasPrefix(path.Base(name), "a")
}

// Open reads the archive in r. The member count is checked before anything
// is decompressed.
func Open(r io.ReaderAt, size int64, opts Options) (Members, error) {
	var m Members

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return m, fmt.Errorf("error reading zip container: %w", err)
	}

	if len(zr.File) != 2 {
		return m, fmt.Errorf("%w: expected 2 entries, found %d", ErrUnexpectedArchiveLayout, len(zr.File))
	}

	first, second := zr.File[0], zr.File[1]
	if isActionStream(first.Name) == isActionStream(second.Name) {
		return m, fmt.Errorf("%w: entries %q and %q are the same stream kind", ErrUnexpectedArchiveLayout, first.Name, second.Name)
	}

	limit := opts.maxMemberSize()
	for _, f := range zr.File {
		text, err := readMember(f, limit)
		if err != nil {
			return Members{}, err
		}
		if isActionStream(f.Name) {
			m.Actions, m.ActionsName = text, f.Name
		} else {
			m.State, m.StateName = text, f.Name
		}
	}

	return m, nil
}

func readMember(f *zip.File, limit int64) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("error opening archive entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	gz, err := gzip.NewReader(rc)
	if err != nil {
		return "", fmt.Errorf("error decompressing archive entry %q: %w", f.Name, err)
	}
	defer gz.Close()

	// One byte past the limit tells an exact fit from an overflow.
	data, err := io.ReadAll(io.LimitReader(gz, limit+1))
	if err != nil {
		return "", fmt.Errorf("error decompressing archive entry %q: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: entry %q exceeds %d bytes", ErrMemberTooLarge, f.Name, limit)
	}

	return string(data), nil
}
