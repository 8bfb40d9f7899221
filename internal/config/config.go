package config

import (
	"encoding/json"
	"os"
	"sync"
)

type SourceType string

const (
	SourceCamera  SourceType = "Camera"
	SourceFile    SourceType = "Video File"
	SourceYouTube SourceType = "YouTube URL"

	DefaultConfigPath string = "config.json"

	BackendLocal  string = "local"
	BackendRemote string = "remote"

	DefaultModelPath  string = "yolov8n.onnx"
	DefaultRemoteHost string = "localhost:8080"
)

var SourcesList = [...]string{
	string(SourceCamera),
	string(SourceFile),
	string(SourceYouTube),
}

type CameraConfig struct {
	DeviceIndex int `json:"device_index"`
}

type FileConfig struct {
	Path string `json:"path"`
}

type YouTubeConfig struct {
	URL string `json:"url"`
}

type DetectorConfig struct {
	Backend      string  `json:"backend"`
	ModelPath    string  `json:"model_path"`
	RemoteHost   string  `json:"remote_host"`
	Confidence   float32 `json:"confidence"`
	NMSThreshold float32 `json:"nms_threshold"`
}

type Config struct {
	mu sync.RWMutex

	ActiveSource  SourceType `json:"active_source"`
	DisplayWidth  int        `json:"display_width"`
	DisplayHeight int        `json:"display_height"`

	Camera   CameraConfig   `json:"camera"`
	File     FileConfig     `json:"file"`
	YouTube  YouTubeConfig  `json:"youtube"`
	Detector DetectorConfig `json:"detector"`
}

func (c *Config) GetActiveSource() SourceType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ActiveSource
}

func (c *Config) SetActiveSource(s SourceType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ActiveSource = s
}

func (c *Config) GetDeviceIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Camera.DeviceIndex
}

func (c *Config) SetDeviceIndex(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Camera.DeviceIndex = idx
}

func (c *Config) GetFilePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.File.Path
}

func (c *Config) SetFilePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.File.Path = path
}

func (c *Config) GetYouTubeURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.YouTube.URL
}

func (c *Config) SetYouTubeURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.YouTube.URL = url
}

func (c *Config) SetDisplayWidth(w int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DisplayWidth = w
}

func (c *Config) SetDisplayHeight(h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DisplayHeight = h
}

func (c *Config) GetDisplaySize() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DisplayWidth, c.DisplayHeight
}

func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func (c *Config) SaveByDefault() error {
	return c.Save(DefaultConfigPath)
}

func LoadConfigFile(path string) *Config {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return NewDefaultConfig()
	}

	return cfg
}

func NewDefaultConfig() *Config {
	return &Config{
		ActiveSource:  SourceCamera,
		DisplayWidth:  640,
		DisplayHeight: 480,
		Camera:        CameraConfig{DeviceIndex: 0},
		File:          FileConfig{},
		YouTube:       YouTubeConfig{},
		Detector: DetectorConfig{
			Backend:      BackendLocal,
			ModelPath:    DefaultModelPath,
			RemoteHost:   DefaultRemoteHost,
			Confidence:   0.45,
			NMSThreshold: 0.5,
		},
	}
}
