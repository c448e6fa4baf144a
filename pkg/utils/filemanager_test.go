package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")

	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
	assert.True(t, FileExists(dir))
}

func TestConfirmOverwrite(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"o\n", true},
		{"O\n", true},
		{"  o  \r\n", true},
		{"o", true},
		{"n\n", false},
		{"oui\n", false},
		{"y\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got, err := ConfirmOverwrite(strings.NewReader(tt.answer), &out, "out.csv")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "answer %q", tt.answer)
		assert.Contains(t, out.String(), "out.csv already exists")
		assert.Contains(t, out.String(), "(o/n)")
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("tty closed") }

func TestConfirmOverwriteReadError(t *testing.T) {
	_, err := ConfirmOverwrite(brokenReader{}, io.Discard, "out.csv")
	assert.ErrorContains(t, err, "tty closed")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := WriteFileAtomic(path, 0644, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "hello")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteFileAtomicFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	boom := errors.New("boom")
	err := WriteFileAtomic(path, 0644, func(w io.Writer) error {
		_, _ = fmt.Fprint(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomicKeepsExistingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))
	require.NoError(t, os.Chmod(path, 0600))

	err := WriteFileAtomic(path, 0644, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "new")
		return err
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteFileAtomicFollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "exports", "donations.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

	link := filepath.Join(dir, "out.csv")
	require.NoError(t, os.Symlink(target, link))

	err := WriteFileAtomic(link, 0644, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "new")
		return err
	})
	require.NoError(t, err)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link replaced by a regular file")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
