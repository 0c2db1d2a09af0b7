package midg

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0o755))

	b := encodedTestImage(t)
	writeFile(t, dir, "good.midg", b)
	writeFile(t, filepath.Join(dir, "sub"), "upper.MIDG", b)
	writeFile(t, filepath.Join(dir, "sub"), "short.midg", b[:HeaderSize-2])
	writeFile(t, filepath.Join(dir, "sub"), "truncated.midg", b[:HeaderSize+1])
	writeFile(t, filepath.Join(dir, ".hidden"), "skipped.midg", b)
	writeFile(t, dir, "other.png", b)

	c := newTestCatalog(t)
	var logs bytes.Buffer
	s := New(c, log.New(&logs, "", 0))
	s.Workers = 3

	id, err := s.Scan(context.Background(), dir)
	require.NoError(t, err)

	entries, err := c.Entries(id)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	byName := make(map[string]Entry)
	for _, e := range entries {
		byName[filepath.Base(e.Path)] = e
	}

	good := byName["good.midg"]
	assert.True(t, good.Valid)
	assert.Equal(t, int64(len(b)), good.Size)
	assert.Len(t, good.SHA1, 40)
	assert.Equal(t, uint16(5), good.Header.Width)
	assert.Equal(t, uint64(len(b)-HeaderSize), good.DataSize)
	assert.Equal(t, good.SHA1, byName["upper.MIDG"].SHA1)

	short := byName["short.midg"]
	assert.False(t, short.Valid)
	assert.Equal(t, ErrShortHeader.Error(), short.Reason)

	assert.True(t, byName["truncated.midg"].Valid)

	assert.Contains(t, logs.String(), "Invalid container")
	assert.Contains(t, logs.String(), "Short payload")
}

func TestScanMissing(t *testing.T) {
	s := New(newTestCatalog(t), log.New(&bytes.Buffer{}, "", 0))
	_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}
