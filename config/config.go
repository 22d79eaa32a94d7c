package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"gopkg.in/yaml.v3"
)

// Config represents options that configure the global behavior of the program
type Config struct {
	// LogLevel is any logrus level name
	LogLevel string `yaml:"logLevel"`

	// LogFile receives log output while the terminal UI owns the screen
	LogFile string `yaml:"logFile"`

	// Scheduler timing
	LookAhead    time.Duration `yaml:"lookAhead"`
	StartOffset  time.Duration `yaml:"startOffset"`
	CatchUpLimit time.Duration `yaml:"catchUpLimit"`

	// DriverFPS is how often the host calls Tick
	DriverFPS int `yaml:"driverFPS"`

	// PresetPath is the JSON file that stores named presets
	PresetPath string `yaml:"presetPath"`

	Audio AudioConfig `yaml:"audio"`
	MIDI  MIDIConfig  `yaml:"midi"`
	OSC   OSCConfig   `yaml:"osc"`
	DMX   DMXConfig   `yaml:"dmx"`
}

// AudioConfig configures the built-in synth.
type AudioConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SampleRate int           `yaml:"sampleRate"`
	BufferSize time.Duration `yaml:"bufferSize"`
}

// MIDIConfig configures click output to an external MIDI device. An empty port disables it.
type MIDIConfig struct {
	Port       string `yaml:"port"`
	Channel    uint8  `yaml:"channel"`
	AccentNote uint8  `yaml:"accentNote"`
	Note       uint8  `yaml:"note"`
}

// OSCConfig configures beat broadcasting over OSC. An empty host disables it.
type OSCConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
}

// DMXConfig configures a fixture that flashes on every beat. An empty OLA address disables it.
type DMXConfig struct {
	OLAAddr     string        `yaml:"olaAddr"`
	Universe    int           `yaml:"universe"`
	Channel     int           `yaml:"channel"`
	AccentColor string        `yaml:"accentColor"`
	Color       string        `yaml:"color"`
	Refresh     time.Duration `yaml:"refresh"`
	Decay       time.Duration `yaml:"decay"`
}

// NewConfig creates a new Config object with reasonable defaults for real usage
func NewConfig() Config {
	home, _ := os.UserHomeDir()

	return Config{
		LogLevel:     "info",
		LogFile:      filepath.Join(home, ".metronome", "metronome.log"),
		LookAhead:    25 * time.Millisecond,
		StartOffset:  100 * time.Millisecond,
		CatchUpLimit: time.Second,
		DriverFPS:    60,
		PresetPath:   filepath.Join(home, ".metronome", "presets.json"),
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			BufferSize: 10 * time.Millisecond,
		},
		MIDI: MIDIConfig{
			Channel:    9,
			AccentNote: 76,
			Note:       77,
		},
		OSC: OSCConfig{
			Port:    8765,
			Address: "/metronome/beat",
		},
		DMX: DMXConfig{
			Universe:    1,
			Channel:     1,
			AccentColor: "#FF0000",
			Color:       "#0000FF",
			Refresh:     40 * time.Millisecond,
			Decay:       150 * time.Millisecond,
		},
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error, the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := NewConfig()
	if path == "" || !files.FileExists(path) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.WithStackTrace(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.WithStackTrace(err)
	}

	cfg.sanitize()
	return cfg, nil
}

// sanitize puts any value a file zeroed or broke back to its default.
func (c *Config) sanitize() {
	defaults := NewConfig()

	if c.LookAhead <= 0 {
		c.LookAhead = defaults.LookAhead
	}
	if c.StartOffset <= 0 {
		c.StartOffset = defaults.StartOffset
	}
	if c.CatchUpLimit <= 0 {
		c.CatchUpLimit = defaults.CatchUpLimit
	}
	if c.DriverFPS <= 0 {
		c.DriverFPS = defaults.DriverFPS
	}
	if c.PresetPath == "" {
		c.PresetPath = defaults.PresetPath
	}
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = defaults.Audio.SampleRate
	}
	if c.Audio.BufferSize <= 0 {
		c.Audio.BufferSize = defaults.Audio.BufferSize
	}
	if c.MIDI.Channel > 15 {
		c.MIDI.Channel = defaults.MIDI.Channel
	}
	if c.OSC.Port <= 0 {
		c.OSC.Port = defaults.OSC.Port
	}
	if c.OSC.Address == "" {
		c.OSC.Address = defaults.OSC.Address
	}
	if c.DMX.Channel < 1 || c.DMX.Channel > 509 {
		c.DMX.Channel = defaults.DMX.Channel
	}
	if c.DMX.Refresh <= 0 {
		c.DMX.Refresh = defaults.DMX.Refresh
	}
	if c.DMX.Decay <= 0 {
		c.DMX.Decay = defaults.DMX.Decay
	}
}
