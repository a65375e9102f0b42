package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	tmp = filepath.Join(tmp, "nested", "dir")
	require.NoError(t, lfs.MkdirAll(tmp))
	require.NoError(t, lfs.MkdirAll(tmp))

	f, err := lfs.CreateTemp(tmp, "chunk.tmp-*")
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Sync())
	assert.NoError(t, f.Close())

	target := filepath.Join(tmp, "chunk.bin")
	require.NoError(t, lfs.Rename(f.Name(), target))

	r, err := lfs.Open(target)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	require.NoError(t, r.Close())

	assert.NoError(t, lfs.Remove(target))
	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.SetLimit(5) // Fail after 5 bytes

	f, err := ffs.CreateTemp(tmp, "faulty-*")
	require.NoError(t, err)

	n, err := f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.NoError(t, f.Close())
}

func TestFaultyFS_Rules(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("sync-", Fault{FailAfterBytes: -1, FailAfterReads: -1, FailOnSync: true})
	ffs.AddRule("close-", Fault{FailAfterBytes: -1, FailAfterReads: -1, FailOnClose: true})

	f, err := ffs.CreateTemp(tmp, "sync-*")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	assert.NoError(t, f.Close())

	f, err = ffs.CreateTemp(tmp, "close-*")
	require.NoError(t, err)
	assert.NoError(t, f.Sync())
	assert.ErrorIs(t, f.Close(), ErrInjected)
}

func TestFaultyFile_SeekAndRead(t *testing.T) {
	f := NewFaultyFile(NewBuffer([]byte("abcdef")), Fault{FailAfterBytes: -1, FailAfterReads: 4})

	buf := make([]byte, 4)
	_, err := io.ReadFull(f, buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf))

	_, err = f.Read(buf[:1])
	assert.ErrorIs(t, err, ErrInjected)

	seekFail := NewFaultyFile(NewBuffer(nil), Fault{FailAfterBytes: -1, FailAfterReads: -1, FailOnSeek: true})
	_, err = seekFail.Seek(0, io.SeekCurrent)
	assert.ErrorIs(t, err, ErrInjected)
}

func TestBuffer(t *testing.T) {
	var b Buffer

	_, err := b.Write([]byte("abc"))
	require.NoError(t, err)

	pos, err := b.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	// Writing past the end zero-fills the gap.
	_, err = b.Seek(5, io.SeekStart)
	require.NoError(t, err)
	_, err = b.Write([]byte("z"))
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 'b', 'c', 0, 0, 'z'}, b.Bytes())

	// Overwrite in the middle.
	_, err = b.Seek(1, io.SeekStart)
	require.NoError(t, err)
	_, err = b.Write([]byte("X"))
	require.NoError(t, err)
	assert.Equal(t, "aXc", string(b.Bytes()[:3]))

	_, err = b.Seek(0, io.SeekStart)
	require.NoError(t, err)
	all, err := io.ReadAll(&b)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	_, err = b.Seek(-1, io.SeekStart)
	assert.Error(t, err)
}
