package fsop

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func stubRename(t *testing.T, fn func(oldpath, newpath string) error) {
	t.Helper()
	original := rename
	rename = fn
	t.Cleanup(func() { rename = original })
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestAtomicWriteReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	require.NoError(t, AtomicWrite(target, []byte("new contents"), 0o640))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.Equal(t, []string{"notes.txt"}, dirNames(t, dir))
}

func TestAtomicWriteInterruptedKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))
	stubRename(t, func(string, string) error { return errors.New("power cut") })

	err := AtomicWrite(target, []byte("replacement"), 0o644)
	require.Error(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	assert.Equal(t, []string{"notes.txt"}, dirNames(t, dir), "temp file must be cleaned up")
}

func TestAtomicWriteInterruptedLeavesNoTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "fresh.txt")
	stubRename(t, func(string, string) error { return errors.New("power cut") })

	require.Error(t, AtomicWrite(target, []byte("data"), 0o644))

	assert.NoFileExists(t, target)
	assert.Empty(t, dirNames(t, dir))
}

func TestAtomicWriteMissingParent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing", "file.txt")
	err := AtomicWrite(target, []byte("x"), 0o644)
	require.Error(t, err)
	assert.NoFileExists(t, target)
}

func TestAtomicCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	payload := []byte("0123456789abcdef")
	require.NoError(t, os.WriteFile(src, payload, 0o600))

	written, err := AtomicCopyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), written)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	dstInfo, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, srcInfo.Mode().Perm(), dstInfo.Mode().Perm())
	assert.True(t, srcInfo.ModTime().Equal(dstInfo.ModTime()))
}

func TestAtomicCopyFileInterruptedKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("incoming"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("existing"), 0o644))
	stubRename(t, func(string, string) error { return errors.New("disk gone") })

	_, err := AtomicCopyFile(src, dst)
	require.Error(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
	assert.ElementsMatch(t, []string{"src.txt", "dst.txt"}, dirNames(t, dir))
}

func TestAtomicCopyFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := AtomicCopyFile(dir, filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))
}

func TestRenameOrCopySameFilesystem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, RenameOrCopy(src, dst))

	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestRenameOrCopyPlainFailureDoesNotCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	stubRename(t, func(string, string) error { return os.ErrPermission })

	err := RenameOrCopy(src, dst)
	require.Error(t, err)
	assert.FileExists(t, src)
	assert.NoFileExists(t, dst)
}

func TestRemoveTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	tree := filepath.Join(dir, "tree")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(tree, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "a", "b", "c.txt"), []byte("y"), 0o644))

	require.NoError(t, RemoveTarget(file))
	require.NoError(t, RemoveTarget(tree))
	require.NoError(t, RemoveTarget(filepath.Join(dir, "never-existed")))

	assert.Empty(t, dirNames(t, dir))
}

func TestAtomicCopyFileLongNames(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
	}{
		{name: "ascii", fileName: strings.Repeat("a", 250)},
		{name: "multibyte", fileName: strings.Repeat("é", 125)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcDir, dstDir := t.TempDir(), t.TempDir()
			src := filepath.Join(srcDir, tt.fileName)
			dst := filepath.Join(dstDir, tt.fileName)
			require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

			written, err := AtomicCopyFile(src, dst)
			require.NoError(t, err)
			assert.Equal(t, int64(7), written)

			data, err := os.ReadFile(dst)
			require.NoError(t, err)
			assert.Equal(t, "payload", string(data))
			assert.Equal(t, []string{tt.fileName}, dirNames(t, dstDir), "no temp file left behind")
		})
	}
}

func TestTempPatternIsBounded(t *testing.T) {
	pattern := tempPattern(filepath.Join("/tmp", strings.Repeat("ü", 200)))
	assert.LessOrEqual(t, len(pattern), 1+tempNameKeep+len(tempSuffix))
	assert.True(t, utf8.ValidString(pattern))
	assert.True(t, strings.HasSuffix(pattern, tempSuffix))

	assert.Equal(t, ".short.txt"+tempSuffix, tempPattern("/tmp/short.txt"))
}
