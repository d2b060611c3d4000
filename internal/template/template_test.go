package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokal-dev/lokal/internal/metadata"
	"github.com/lokal-dev/lokal/internal/structure"
)

func demo(t *testing.T) Definition {
	t.Helper()
	tree, err := structure.FromPaths("src/main.txt", "docs/")
	require.NoError(t, err)
	d, err := New("Demo", "A demo template", tree, metadata.Fields{
		metadata.KeyDependencies: metadata.Strings("x"),
	})
	require.NoError(t, err)
	return d
}

func TestNewRejectsFileRoot(t *testing.T) {
	_, err := New("Broken", "root is a file", structure.File(), nil)
	require.Error(t, err)
}

func TestNewRejectsInvalidNames(t *testing.T) {
	tree := structure.Dir(structure.Entries{"..": structure.File()})
	_, err := New("Broken", "bad name", tree, nil)
	require.ErrorIs(t, err, structure.ErrInvalidName)
}

func TestExtendAddsOnly(t *testing.T) {
	base := demo(t)
	derived, err := base.Extend(Extension{
		Name:  "Demo Plus",
		Paths: []string{"src/extra.txt", "web/"},
		Metadata: metadata.Fields{
			metadata.KeyDependencies: metadata.Strings("y"),
			"features":               metadata.Strings("more"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Demo Plus", derived.Name())
	assert.Equal(t, "A demo template", derived.Description(), "unset description keeps the base value")
	assert.Equal(t, []string{"docs/", "src/", "src/extra.txt", "src/main.txt", "web/"}, derived.Structure().Paths())
	assert.Equal(t, []string{"x", "y"}, derived.Metadata().Dependencies())
	assert.True(t, Extends(derived, base))
	assert.False(t, Extends(base, derived))

	// base is unchanged
	assert.Equal(t, "Demo", base.Name())
	assert.Equal(t, []string{"docs/", "src/", "src/main.txt"}, base.Structure().Paths())
	assert.Equal(t, []string{"x"}, base.Metadata().Dependencies())
}

func TestExtendRejectsStructuralConflict(t *testing.T) {
	_, err := demo(t).Extend(Extension{Paths: []string{"src/main.txt/inner.txt"}})
	require.ErrorIs(t, err, structure.ErrStructuralAmbiguity)
}

func TestExtendRejectsMetadataOverride(t *testing.T) {
	_, err := demo(t).Extend(Extension{Metadata: metadata.Fields{
		metadata.KeyDependencies: metadata.String("replaced"),
	}})
	require.ErrorIs(t, err, metadata.ErrOverride)
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check(demo(t)))
	assert.ErrorIs(t, Check(nil), ErrIncomplete)
	assert.ErrorIs(t, Check(Definition{}), ErrIncomplete, "zero tree is a file leaf")
	assert.NoError(t, Check(Definition{tree: structure.EmptyDir()}), "name and description are optional")
}

func TestFactoryOfPropagatesErrors(t *testing.T) {
	factory := FactoryOf(func() (Definition, error) { return ESP32Sensor("", ProtocolMQTT) })
	tmpl, err := factory()
	require.Error(t, err)
	assert.Nil(t, tmpl, "a failed factory must not return a non-nil interface")
}

func TestBuiltinsAreComplete(t *testing.T) {
	builders := map[string]func() (Definition, error){
		"smart_home":        SmartHome,
		"automation":        Automation,
		"game_dev":          GameDev,
		"esp32_generic":     ESP32Generic,
		"esp32_sht41":       SHT41,
		"esp32_bme680":      BME680,
		"esp32_motion":      Motion,
		"esp32_light":       Light,
		"taupunkt":          Taupunkt,
		"taupunkt_advanced": TaupunktAdvanced,
	}
	for id, build := range builders {
		t.Run(id, func(t *testing.T) {
			d, err := build()
			require.NoError(t, err)
			require.NoError(t, Check(d))
			require.NoError(t, d.Structure().Validate())
			assert.NotEmpty(t, d.Metadata().Dependencies())
			assert.NotEmpty(t, d.Metadata().ConfigFiles())

			// the Flutter manifest is declared at the project root but shipped
			// under config/
			if id == "game_dev" {
				return
			}
			for _, p := range d.Metadata().ConfigFiles() {
				node, ok := d.Structure().Lookup(p)
				require.True(t, ok, "config file %s", p)
				assert.True(t, node.IsFile(), "config file %s", p)
			}
		})
	}
}

func TestDerivedTemplatesOnlyExtend(t *testing.T) {
	pairs := []struct {
		name    string
		derived func() (Definition, error)
		base    func() (Definition, error)
	}{
		{"sht41", SHT41, func() (Definition, error) { return ESP32Sensor(SensorTempHumidity, ProtocolMQTT) }},
		{"bme680", BME680, func() (Definition, error) { return ESP32Sensor(SensorAirQuality, ProtocolMQTT) }},
		{"motion", Motion, func() (Definition, error) { return ESP32Sensor(SensorMotion, ProtocolMQTT) }},
		{"light", Light, func() (Definition, error) { return ESP32Sensor(SensorLight, ProtocolMQTT) }},
		{"taupunkt advanced", TaupunktAdvanced, Taupunkt},
	}
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			derived, err := tt.derived()
			require.NoError(t, err)
			base, err := tt.base()
			require.NoError(t, err)

			assert.True(t, Extends(derived, base))
			for _, key := range base.Metadata().Keys() {
				assert.True(t, derived.Metadata().Has(key), "key %s dropped", key)
			}
		})
	}
}

func TestESP32Sensor(t *testing.T) {
	d, err := ESP32Sensor(SensorTempHumidity, ProtocolHTTP)
	require.NoError(t, err)

	assert.Equal(t, "ESP32 Temp_Humidity Sensor", d.Name())
	assert.Contains(t, d.Description(), "HTTP integration")
	assert.Equal(t,
		[]string{"esp32", "Arduino", "PlatformIO", "HTTPClient", "WiFi", "ArduinoJson", "DHT", "SHT41"},
		d.Metadata().Dependencies())

	_, ok := d.Structure().Lookup("src/sensors/temp_humidity.cpp")
	assert.True(t, ok)
	_, ok = d.Structure().Lookup("src/communication/http.h")
	assert.True(t, ok)

	protocol, ok := d.Metadata().StringValue("communication_protocol")
	require.True(t, ok)
	assert.Equal(t, "http", protocol)
}

func TestESP32SensorUnknownParameters(t *testing.T) {
	d, err := ESP32Sensor("sonar", "lora")
	require.NoError(t, err)
	assert.Equal(t, []string{"esp32", "Arduino", "PlatformIO"}, d.Metadata().Dependencies())
}

func TestESP32SensorRejectsUnusableNames(t *testing.T) {
	_, err := ESP32Sensor("a/b", ProtocolMQTT)
	require.Error(t, err)
}

func TestSHT41Additions(t *testing.T) {
	d, err := SHT41()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"config/platformio.ini",
		"config/mqtt_config.json",
		"config/sensor_config.json",
		"config/sht41_calibration.json",
	}, d.Metadata().ConfigFiles())

	_, ok := d.Structure().Lookup("docs/hardware/SHT41_datasheet.md")
	assert.True(t, ok)
	assert.True(t, d.Metadata().Has("sensor_specs"))
}

func TestTaupunktAdvancedAdditions(t *testing.T) {
	d, err := TaupunktAdvanced()
	require.NoError(t, err)

	deps := d.Metadata().Dependencies()
	assert.Equal(t, "MicroPython", deps[0])
	assert.Equal(t, "micropython-json", deps[len(deps)-1])

	for _, p := range []string{"web/templates/index.html", "src/connectivity/mqtt.py", "src/storage/cloud_sync.py", "docs/software/web_api.md"} {
		_, ok := d.Structure().Lookup(p)
		assert.True(t, ok, p)
	}
	assert.True(t, d.Metadata().Has("advanced_features"))
}

func TestConstructorsReturnFreshTrees(t *testing.T) {
	a, err := Taupunkt()
	require.NoError(t, err)
	b, err := Taupunkt()
	require.NoError(t, err)

	assert.True(t, a.Structure().Equal(b.Structure()))
	assert.True(t, a.Metadata().Equal(b.Metadata()))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Temp_Humidity", titleCase("temp_humidity"))
	assert.Equal(t, "Generic", titleCase("generic"))
	assert.Equal(t, "Air_Quality2X", titleCase("AIR_QUALITY2x"))
}
