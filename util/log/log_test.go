//go:build !release

package log

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dixieflatline76/Realist/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

func TestOutput(t *testing.T) {
	buf := captureLog(t)

	Print("opened ", "render.png")
	Printf("Enhancement %s started in %s mode", "job-1", "strict")
	Debugf("queue depth %d", 2)

	assert.Equal(t,
		"opened render.png\n"+
			"Enhancement job-1 started in strict mode\n"+
			"[DEBUG] queue depth 2\n",
		buf.String())
}

func TestDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("home directory comes from USERPROFILE on windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	dir, err := Dir("linux")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".realist"), dir)
	assert.Equal(t, config.LogSubDir, filepath.Base(dir))
}

func TestNewFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	w, err := NewFileWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, filepath.Join(dir, "realist.log"), w.Filename)
	assert.Equal(t, config.LogMaxSizeMB, w.MaxSize)
	assert.Equal(t, config.LogMaxBackups, w.MaxBackups)
	assert.True(t, w.Compress)

	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)
	data, err := os.ReadFile(w.Filename)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}
