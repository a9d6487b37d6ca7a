package config

import (
	"sort"
	"time"
)

// Preset is a named playback speed.
type Preset struct {
	Interval  time.Duration
	Autostart bool
	Note      string
}

var Presets = map[string]Preset{
	"slow":   {Interval: 3 * time.Second, Note: "time to read every region"},
	"normal": {Interval: DefaultInterval, Note: "default pace"},
	"fast":   {Interval: 500 * time.Millisecond, Note: "quick review"},
	"demo":   {Interval: 250 * time.Millisecond, Autostart: true, Note: "starts on launch"},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return Presets[names[i]].Interval > Presets[names[j]].Interval
	})
	return names
}

// Apply copies the preset onto cfg.
func (p Preset) Apply(cfg *Config) {
	cfg.Interval = p.Interval
	if p.Autostart {
		cfg.Autostart = true
	}
}
