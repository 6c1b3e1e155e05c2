package config

import (
	"sort"

	"github.com/san-kum/pengviz/internal/session"
)

// Preset is a named starting state of the dashboard.
type Preset struct {
	Description string
	Inputs      InputsConfig
}

var Presets = map[string]*Preset{
	"all": {
		Description: "every species, bill length, 50 bins",
		Inputs:      InputsConfig{Species: []string{"Adelie", "Gentoo", "Chinstrap"}, Attribute: "bill_length_mm", InteractiveBins: 50, StaticBins: 50},
	},
	"gentoo": {
		Description: "Gentoo only, body mass",
		Inputs:      InputsConfig{Species: []string{"Gentoo"}, Attribute: "body_mass_g", InteractiveBins: 30, StaticBins: 30},
	},
	"bills": {
		Description: "bill depth across species, coarse bins",
		Inputs:      InputsConfig{Species: []string{"Adelie", "Gentoo", "Chinstrap"}, Attribute: "bill_depth_mm", InteractiveBins: 20, StaticBins: 10},
	},
	"flippers": {
		Description: "flipper length with automatic bins",
		Inputs:      InputsConfig{Species: []string{"Adelie", "Gentoo", "Chinstrap"}, Attribute: "flipper_length_mm", InteractiveBins: 0, StaticBins: 0},
	},
	"dream": {
		Description: "the two species sampled on Dream island",
		Inputs:      InputsConfig{Species: []string{"Adelie", "Chinstrap"}, Attribute: "bill_length_mm", InteractiveBins: 40, StaticBins: 25},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SessionInputs converts the preset for session.New.
func (p *Preset) SessionInputs() (session.Inputs, error) {
	return p.Inputs.toSession()
}
