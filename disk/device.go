package disk

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"pagestore/page"
)

// Device is the block device abstraction: two synchronous operations
// transferring exactly one page-size buffer each. Error conditions are
// platform-specific and surface to the scheduler as completion failures,
// never as panics.
type Device interface {
	ReadPage(id page.ID, buf []byte) error
	WritePage(id page.ID, buf []byte) error
}

// FileDevice is the reference Device: a single flat file addressed by
// page id, one PageID space with no file id.
type FileDevice struct {
	file *os.File
}

// OpenFileDevice opens (creating if absent) the backing store file at
// path. The file is never closed automatically; callers should call
// Close when done.
func OpenFileDevice(path string) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open backing store %q", path)
	}
	return &FileDevice{file: f}, nil
}

// Close releases the underlying file handle.
func (d *FileDevice) Close() error {
	return d.file.Close()
}

func (d *FileDevice) offset(id page.ID) int64 {
	return int64(id) * page.Size
}

// ReadPage reads exactly page.Size bytes at id's offset into buf. A short
// read past end-of-file (a page allocated but never written) is padded
// with zeros rather than treated as an error.
func (d *FileDevice) ReadPage(id page.ID, buf []byte) error {
	if len(buf) != page.Size {
		return errors.Errorf("read buffer size %d does not match page size %d", len(buf), page.Size)
	}
	n, err := d.file.ReadAt(buf, d.offset(id))
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "read page %d", id)
	}
	// EOF on a page never written (or cut short): zero the unread tail.
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// WritePage writes exactly page.Size bytes from buf at id's offset.
func (d *FileDevice) WritePage(id page.ID, buf []byte) error {
	if len(buf) != page.Size {
		return errors.Errorf("write buffer size %d does not match page size %d", len(buf), page.Size)
	}
	if _, err := d.file.WriteAt(buf, d.offset(id)); err != nil {
		return errors.Wrapf(err, "write page %d", id)
	}
	return nil
}
