package config

import "sort"

// Profiles are named engine settings trading accuracy for speed.
var Profiles = map[string]EngineConfig{
	"realtime": {Duration: DefaultDuration, TimeStep: 1.0 / 60, PowerScale: DefaultPowerScale},
	"precise":  {Duration: DefaultDuration, TimeStep: 1.0 / 240, PowerScale: DefaultPowerScale},
	"coarse":   {Duration: DefaultDuration, TimeStep: 1.0 / 20, PowerScale: DefaultPowerScale},
	"long":     {Duration: 120, TimeStep: 1.0 / 30, PowerScale: DefaultPowerScale},
}

// GetProfile returns a copy of the default config with the named engine
// profile applied, or nil.
func GetProfile(name string) *Config {
	p, ok := Profiles[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Engine = p
	return cfg
}

func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
