package registry

import (
	"fmt"

	"github.com/lokal-dev/lokal/internal/template"
)

// Builtins maps the ids of the templates shipped with lokal to their
// constructors.
var Builtins = map[string]func() (template.Definition, error){
	"smart_home":        template.SmartHome,
	"automation":        template.Automation,
	"game_dev":          template.GameDev,
	"esp32_generic":     template.ESP32Generic,
	"esp32_sht41":       template.SHT41,
	"esp32_bme680":      template.BME680,
	"esp32_motion":      template.Motion,
	"esp32_light":       template.Light,
	"taupunkt":          template.Taupunkt,
	"taupunkt_advanced": template.TaupunktAdvanced,
}

// NewDefault returns a registry holding every built-in template.
func NewDefault() (*Registry, error) {
	r := New()
	for id, build := range Builtins {
		if err := r.Register(id, template.FactoryOf(build)); err != nil {
			return nil, fmt.Errorf("failed to register built-in template: %w", err)
		}
	}
	return r, nil
}
