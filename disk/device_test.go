package disk

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagestore/page"
)

func TestFileDeviceWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	dev, err := OpenFileDevice(path)
	require.NoError(t, err)
	defer dev.Close()

	want := make([]byte, page.Size)
	copy(want, "hello, disk")
	require.NoError(t, dev.WritePage(page.ID(3), want))

	got := make([]byte, page.Size)
	require.NoError(t, dev.ReadPage(page.ID(3), got))
	assert.Equal(t, want, got)
}

func TestFileDeviceReadNeverWrittenPageIsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	dev, err := OpenFileDevice(path)
	require.NoError(t, err)
	defer dev.Close()

	buf := make([]byte, page.Size)
	for i := range buf {
		buf[i] = 0xAA
	}
	require.NoError(t, dev.ReadPage(page.ID(99), buf))
	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}
}

func TestFileDeviceWrongBufferSizeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	dev, err := OpenFileDevice(path)
	require.NoError(t, err)
	defer dev.Close()

	assert.Error(t, dev.WritePage(page.ID(0), make([]byte, 10)))
	assert.Error(t, dev.ReadPage(page.ID(0), make([]byte, 10)))
}

func TestFileDeviceReadOnClosedFileErrorsInsteadOfZeroing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	dev, err := OpenFileDevice(path)
	require.NoError(t, err)
	require.NoError(t, dev.Close())

	buf := make([]byte, page.Size)
	for i := range buf {
		buf[i] = 0xAA
	}
	err = dev.ReadPage(page.ID(0), buf)
	require.Error(t, err)
	for _, b := range buf {
		assert.Equal(t, byte(0xAA), b, "a genuine I/O failure must not be masked as a zero-filled page")
	}
}
