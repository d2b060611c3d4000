package template

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lokal-dev/lokal/internal/metadata"
	"github.com/lokal-dev/lokal/internal/structure"
)

const (
	SensorGeneric      = "generic"
	SensorTempHumidity = "temp_humidity"
	SensorAirQuality   = "air_quality"
	SensorMotion       = "motion"
	SensorLight        = "light"

	ProtocolMQTT = "mqtt"
	ProtocolHTTP = "http"
	ProtocolBLE  = "ble"
)

var esp32BaseDeps = []string{"esp32", "Arduino", "PlatformIO"}

var esp32ProtocolDeps = map[string][]string{
	ProtocolMQTT: {"PubSubClient", "WiFi"},
	ProtocolHTTP: {"HTTPClient", "WiFi", "ArduinoJson"},
	ProtocolBLE:  {"BLE", "NimBLE-Arduino"},
}

var esp32SensorDeps = map[string][]string{
	SensorTempHumidity: {"DHT", "SHT41"},
	SensorAirQuality:   {"BME680", "SGP30"},
	SensorMotion:       {"PIR", "MPU6050"},
	SensorLight:        {"BH1750", "TSL2561"},
}

// ESP32Sensor is the base template for ESP32 sensor projects. sensorType and
// protocol name source files, so both must be usable as file names. Unknown
// values are accepted and simply contribute no extra dependencies.
func ESP32Sensor(sensorType, protocol string) (Definition, error) {
	if sensorType == "" || protocol == "" {
		return Definition{}, fmt.Errorf("esp32 sensor template needs a sensor type and a protocol")
	}
	for _, name := range []string{sensorType, protocol} {
		if err := structure.ValidateName(name); err != nil {
			return Definition{}, fmt.Errorf("esp32 sensor template: %q: %w", name, err)
		}
	}
	proto := strings.ToUpper(protocol)

	deps := uniqueStrings(esp32BaseDeps, esp32ProtocolDeps[protocol], esp32SensorDeps[sensorType])

	return fromPaths(
		fmt.Sprintf("ESP32 %s Sensor", titleCase(sensorType)),
		fmt.Sprintf("ESP32 IoT sensor project with %s integration. Includes sensor calibration, data logging, and cloud sync.", proto),
		[]string{
			"src/main.cpp",
			"src/config.h",
			"src/sensors/" + sensorType + ".cpp",
			"src/sensors/" + sensorType + ".h",
			"src/communication/" + protocol + ".cpp",
			"src/communication/" + protocol + ".h",
			"src/utils/calibration.cpp",
			"src/utils/calibration.h",
			"src/utils/logger.cpp",
			"src/utils/logger.h",
			"include/",
			"lib/",
			"docs/hardware/pinout.md",
			"docs/hardware/wiring_diagram.md",
			"docs/hardware/bom.md",
			"docs/software/api.md",
			"docs/software/calibration_guide.md",
			"docs/README.md",
			"config/platformio.ini",
			"config/mqtt_config.json",
			"config/sensor_config.json",
			"tests/test_sensors.cpp",
			"tests/test_communication.cpp",
			"README.md",
			".gitignore",
		},
		metadata.Fields{
			"framework":              metadata.String("Arduino"),
			"platform":               metadata.String("esp32"),
			metadata.KeyDependencies: metadata.Strings(deps...),
			metadata.KeyConfigFiles: metadata.Strings(
				"config/platformio.ini",
				"config/mqtt_config.json",
				"config/sensor_config.json",
			),
			"sensor_type":            metadata.String(sensorType),
			"communication_protocol": metadata.String(protocol),
			"features": metadata.Strings(
				"OTA updates",
				"WiFi connectivity",
				proto+" communication",
				"Sensor calibration",
				"Data logging",
				"Web dashboard support",
			),
		},
	)
}

// ESP32Generic is the ESP32 sensor base with its default parameters.
func ESP32Generic() (Definition, error) {
	return ESP32Sensor(SensorGeneric, ProtocolMQTT)
}

// SHT41 specializes the ESP32 sensor template for the SHT41 temperature and
// humidity sensor.
func SHT41() (Definition, error) {
	base, err := ESP32Sensor(SensorTempHumidity, ProtocolMQTT)
	if err != nil {
		return Definition{}, err
	}
	return base.Extend(Extension{
		Name:        "ESP32 SHT41 Environment Monitor",
		Description: "Professional environment monitoring with SHT41 sensor. Includes temperature, humidity, and dew point calculation. MQTT integration ready.",
		Paths: []string{
			"docs/hardware/SHT41_datasheet.md",
			"docs/software/dew_point_calculation.md",
			"config/sht41_calibration.json",
		},
		Metadata: metadata.Fields{
			"sensor_specs": metadata.Map(metadata.Fields{
				"model":             metadata.String("Sensirion SHT41"),
				"interface":         metadata.String("I2C"),
				"measurement_range": metadata.String("-40 to +125 C"),
				"humidity_range":    metadata.String("0 to 100 RH"),
				"accuracy_temp":     metadata.String("+/-1.5 C"),
				"accuracy_humidity": metadata.String("+/-3 RH"),
			}),
			metadata.KeyConfigFiles: metadata.Strings("config/sht41_calibration.json"),
		},
	})
}

// BME680 specializes the ESP32 sensor template for air quality monitoring.
func BME680() (Definition, error) {
	base, err := ESP32Sensor(SensorAirQuality, ProtocolMQTT)
	if err != nil {
		return Definition{}, err
	}
	return base.Extend(Extension{
		Name:        "ESP32 BME680 Air Quality Monitor",
		Description: "Comprehensive air quality monitoring with BME680. Measures temperature, humidity, pressure, and VOC. Includes IAQ (Indoor Air Quality) calculation.",
		Paths: []string{
			"docs/hardware/BME680_datasheet.md",
			"docs/software/iaq_calculation.md",
			"examples/basic_reading.cpp",
			"examples/with_calibration.cpp",
			"examples/mqtt_publish.cpp",
		},
		Metadata: metadata.Fields{
			"sensor_specs": metadata.Map(metadata.Fields{
				"model":             metadata.String("Bosch BME680"),
				"interface":         metadata.String("I2C/SPI"),
				"temperature_range": metadata.String("-40 to +85 C"),
				"pressure_range":    metadata.String("300 to 1100 hPa"),
				"humidity_range":    metadata.String("0 to 100 RH"),
				"gas_range":         metadata.String("1 to 500k Ohm"),
				"measurements":      metadata.Strings("Temperature", "Humidity", "Pressure", "VOC"),
			}),
			"features": metadata.Strings("IAQ index calculation", "VOC measurement", "Pressure trending"),
		},
	})
}

// Motion specializes the ESP32 sensor template for motion detection.
func Motion() (Definition, error) {
	base, err := ESP32Sensor(SensorMotion, ProtocolMQTT)
	if err != nil {
		return Definition{}, err
	}
	return base.Extend(Extension{
		Name:        "ESP32 Motion Detection",
		Description: "Motion detection and occupancy monitoring. PIR and accelerometer integration for reliable detection.",
		Metadata: metadata.Fields{
			"sensor_specs": metadata.Map(metadata.Fields{
				"primary":         metadata.String("PIR HC-SR501"),
				"secondary":       metadata.String("MPU6050 Accelerometer"),
				"interfaces":      metadata.Strings("GPIO", "I2C"),
				"detection_range": metadata.String("~7 meters"),
			}),
			"features": metadata.Strings("Dual sensor validation", "Occupancy tracking", "Motion statistics"),
		},
	})
}

// Light specializes the ESP32 sensor template for ambient light monitoring.
func Light() (Definition, error) {
	base, err := ESP32Sensor(SensorLight, ProtocolMQTT)
	if err != nil {
		return Definition{}, err
	}
	return base.Extend(Extension{
		Name:        "ESP32 Light Level Monitor",
		Description: "Ambient light monitoring and automatic control. BH1750 digital ambient light sensor integration.",
		Metadata: metadata.Fields{
			"sensor_specs": metadata.Map(metadata.Fields{
				"model":             metadata.String("ROHM BH1750FVI"),
				"interface":         metadata.String("I2C"),
				"measurement_range": metadata.String("1 to 65535 lux"),
				"resolution":        metadata.String("1 lux"),
				"response_time":     metadata.String("~16 ms"),
			}),
			"features": metadata.Strings("Automatic brightness control", "Lux-based triggers", "Low-power mode"),
		},
	})
}

// uniqueStrings concatenates the groups and drops repeats, keeping the first
// occurrence.
func uniqueStrings(groups ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, s := range group {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "temp_humidity" becomes "Temp_Humidity".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
