package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Upstream UpstreamSettings `json:"upstream"`
	Database DatabaseSettings `json:"database"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// UpstreamSettings configures the candidate instance pool and the engine's
// timing knobs.
type UpstreamSettings struct {
	// Instances is the ordered built-in candidate list. Order matters: it is
	// the fallback attempt order for candidates the prober has not vouched for.
	Instances []string `json:"instances"`
	// ForcedInstance, when set, becomes the only candidate. The
	// VIDGATE_INSTANCE environment variable takes precedence over this field.
	ForcedInstance         string `json:"forcedInstance,omitempty"`
	ProbeTimeoutSec        int    `json:"probeTimeoutSec"`
	ResolveTimeoutSec      int    `json:"resolveTimeoutSec"`
	HealthCheckIntervalSec int    `json:"healthCheckIntervalSec"`
}

// DatabaseSettings defines where the resolution history database lives.
type DatabaseSettings struct {
	Path string `json:"path"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// EnvForcedInstance is the environment variable that pins resolution to a
// single upstream instance, overriding both the config file and defaults.
const EnvForcedInstance = "VIDGATE_INSTANCE"

// DefaultInstances is the built-in candidate list, in declared attempt order.
// Availability of public instances varies; the prober sorts the wheat from
// the chaff at runtime.
var DefaultInstances = []string{
	"https://yewtu.be",
	"https://inv.nadeko.net",
	"https://invidious.nerdvpn.de",
	"https://inv.tux.pizza",
	"https://vid.puffyan.us",
	"https://invidious.kavin.rocks",
}

// DefaultSettings returns sane defaults for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 8484},
		Upstream: UpstreamSettings{
			Instances:              append([]string(nil), DefaultInstances...),
			ProbeTimeoutSec:        6,
			ResolveTimeoutSec:      12,
			HealthCheckIntervalSec: 60,
		},
		Database: DatabaseSettings{Path: "cache/history.db"},
		Log: LogConfig{
			File:       "cache/logs/backend.log",
			Level:      "info",
			MaxSize:    50,   // 50 MB per file
			MaxBackups: 3,    // keep 3 old files
			MaxAge:     7,    // 7 days
			Compress:   true, // compress old files
		},
	}
}

// UpstreamCandidates returns the effective candidate address list. A forced
// instance (env var first, then config field) is the only candidate when set.
func (s Settings) UpstreamCandidates() []string {
	if forced := strings.TrimSpace(os.Getenv(EnvForcedInstance)); forced != "" {
		return []string{forced}
	}
	if forced := strings.TrimSpace(s.Upstream.ForcedInstance); forced != "" {
		return []string{forced}
	}
	return append([]string(nil), s.Upstream.Instances...)
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		// create with defaults
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}

	// Backfill defaults for settings that predate the config file
	if strings.TrimSpace(s.Server.Host) == "" {
		s.Server.Host = "0.0.0.0"
	}
	if s.Server.Port == 0 {
		s.Server.Port = 8484
	}
	if len(s.Upstream.Instances) == 0 {
		s.Upstream.Instances = append([]string(nil), DefaultInstances...)
	}
	if s.Upstream.ProbeTimeoutSec == 0 {
		s.Upstream.ProbeTimeoutSec = 6
	}
	if s.Upstream.ResolveTimeoutSec == 0 {
		s.Upstream.ResolveTimeoutSec = 12
	}
	if s.Upstream.HealthCheckIntervalSec == 0 {
		s.Upstream.HealthCheckIntervalSec = 60
	}
	if strings.TrimSpace(s.Database.Path) == "" {
		s.Database.Path = "cache/history.db"
	}
	if strings.TrimSpace(s.Log.File) == "" {
		s.Log.File = "cache/logs/backend.log"
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = 50
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = 3
	}
	if s.Log.MaxAge == 0 {
		s.Log.MaxAge = 7
	}

	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
