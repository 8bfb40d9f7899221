package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewDefaultConfig()
	cfg.SetActiveSource(SourceYouTube)
	cfg.SetYouTubeURL("https://youtube.com/watch?v=dQw4w9WgXcQ")
	cfg.SetFilePath("/videos/clip.mp4")
	cfg.SetDeviceIndex(2)
	cfg.SetDisplayWidth(800)
	cfg.SetDisplayHeight(600)
	require.NoError(t, cfg.Save(path))

	loaded := LoadConfigFile(path)
	require.Equal(t, SourceYouTube, loaded.GetActiveSource())
	require.Equal(t, "https://youtube.com/watch?v=dQw4w9WgXcQ", loaded.GetYouTubeURL())
	require.Equal(t, "/videos/clip.mp4", loaded.GetFilePath())
	require.Equal(t, 2, loaded.GetDeviceIndex())

	w, h := loaded.GetDisplaySize()
	require.Equal(t, 800, w)
	require.Equal(t, 600, h)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfigFile(filepath.Join(t.TempDir(), "absent.json"))

	require.Equal(t, SourceCamera, cfg.GetActiveSource())
	require.Equal(t, BackendLocal, cfg.Detector.Backend)
	require.Equal(t, DefaultModelPath, cfg.Detector.ModelPath)
}

func TestLoadCorruptFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	cfg := LoadConfigFile(path)
	require.Equal(t, SourceCamera, cfg.GetActiveSource())
}
