package entry

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tempDir := t.TempDir()

	dir := filepath.Join(tempDir, "dir")
	require.NoError(t, os.Mkdir(dir, 0o755))

	file := filepath.Join(tempDir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	link := filepath.Join(tempDir, "link")
	require.NoError(t, os.Symlink(dir, link))

	scenarios := map[string]struct {
		path string
		want Type
	}{
		"directory":            {path: dir, want: Directory},
		"regular file":         {path: file, want: File},
		"symlink to directory": {path: link, want: Other},
		"character device":     {path: "/dev/null", want: Other},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			got, err := Classify(data.path)
			require.NoError(t, err)
			assert.Equal(t, data.want, got)
		})
	}
}

func TestClassifyNotExist(t *testing.T) {
	_, err := Classify(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsEmpty(t *testing.T) {
	tempDir := t.TempDir()

	emptyFile := filepath.Join(tempDir, "empty-file")
	require.NoError(t, os.WriteFile(emptyFile, nil, 0o644))

	fullFile := filepath.Join(tempDir, "full-file")
	require.NoError(t, os.WriteFile(fullFile, []byte("content"), 0o644))

	emptyDir := filepath.Join(tempDir, "empty-dir")
	require.NoError(t, os.Mkdir(emptyDir, 0o755))

	fullDir := filepath.Join(tempDir, "full-dir")
	require.NoError(t, os.Mkdir(fullDir, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(fullDir, "child"), 0o755))

	scenarios := map[string]struct {
		path  string
		empty bool
	}{
		"empty file":          {path: emptyFile, empty: true},
		"non-empty file":      {path: fullFile, empty: false},
		"empty directory":     {path: emptyDir, empty: true},
		"non-empty directory": {path: fullDir, empty: false},
	}

	for scenario, data := range scenarios {
		t.Run(scenario, func(t *testing.T) {
			empty, err := IsEmpty(data.path)
			require.NoError(t, err)
			assert.Equal(t, data.empty, empty)
		})
	}
}

func TestIsEmptyAfterAddingChild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dir")
	require.NoError(t, os.Mkdir(dir, 0o755))

	empty, err := IsEmpty(dir)
	require.NoError(t, err)
	assert.True(t, empty)

	typ, err := Classify(dir)
	require.NoError(t, err)
	assert.Equal(t, Directory, typ)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "child"), nil, 0o644))

	empty, err = IsEmpty(dir)
	require.NoError(t, err)
	assert.False(t, empty)

	typ, err = Classify(dir)
	require.NoError(t, err)
	assert.Equal(t, Directory, typ)
}

func TestIsEmptyUnsupported(t *testing.T) {
	tempDir := t.TempDir()

	link := filepath.Join(tempDir, "link")
	require.NoError(t, os.Symlink(tempDir, link))

	sock := filepath.Join(tempDir, "sock")
	l, err := net.Listen("unix", sock)
	require.NoError(t, err)
	defer l.Close()

	for _, p := range []string{link, sock} {
		_, err := IsEmpty(p)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	}
}

func TestIsEmptyNotExist(t *testing.T) {
	_, err := IsEmpty(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "directory", Directory.String())
	assert.Equal(t, "file", File.String())
	assert.Equal(t, "other", Other.String())
}
