package template

import (
	"github.com/lokal-dev/lokal/internal/metadata"
)

// Taupunkt is the MicroPython dew point display for the Raspberry Pi Pico 2.
func Taupunkt() (Definition, error) {
	return fromPaths(
		"Taupunkt - Dew Point Display",
		"MicroPython-based environmental monitoring and dew point display for Raspberry Pi Pico 2. Features AHT20, BMP280, and SHT41 sensors with ST7789 LCD output.",
		[]string{
			"src/main.py",
			"src/config.py",
			"src/sensors/aht20.py",
			"src/sensors/bmp280.py",
			"src/sensors/sht41.py",
			"src/sensors/base_sensor.py",
			"src/display/lcd_st7789.py",
			"src/display/ui.py",
			"src/display/graphics.py",
			"src/utils/dew_point.py",
			"src/utils/calibration.py",
			"src/utils/logger.py",
			"micropython/lib/st7789py.py",
			"micropython/lib/aht20.py",
			"micropython/lib/bmp280.py",
			"micropython/main.py",
			"micropython/boot.py",
			"docs/hardware/pinout.md",
			"docs/hardware/wiring_diagram.md",
			"docs/hardware/bom.md",
			"docs/hardware/sensor_specs.md",
			"docs/hardware/display_specs.md",
			"docs/software/dew_point_algorithm.md",
			"docs/software/sensor_calibration.md",
			"docs/software/micropython_setup.md",
			"docs/README.md",
			"config/default_config.json",
			"config/sensor_offsets.json",
			"config/display_config.json",
			"tests/test_sensors.py",
			"tests/test_dew_point.py",
			"tests/test_display.py",
			"examples/basic_display.py",
			"examples/with_logging.py",
			"examples/advanced_ui.py",
			"README.md",
			".gitignore",
		},
		metadata.Fields{
			"framework": metadata.String("MicroPython"),
			"platform":  metadata.String("Raspberry Pi Pico 2"),
			"language":  metadata.String("Python 3"),
			metadata.KeyDependencies: metadata.Strings(
				"MicroPython",
				"micropython-st7789",
				"micropython-aht20",
				"micropython-bmp280",
				"micropython-sht41",
			),
			metadata.KeyConfigFiles: metadata.Strings(
				"config/default_config.json",
				"config/sensor_offsets.json",
				"config/display_config.json",
			),
			"sensors": metadata.Map(metadata.Fields{
				"primary_humidity_temp":   metadata.String("SHT41 (Indoor)"),
				"secondary_humidity_temp": metadata.String("AHT20 (Ambient)"),
				"pressure":                metadata.String("BMP280"),
			}),
			"display": metadata.Map(metadata.Fields{
				"manufacturer": metadata.String("Waveshare"),
				"model":        metadata.String(`1.47" LCD`),
				"controller":   metadata.String("ST7789"),
				"resolution":   metadata.String("172x320"),
				"interface":    metadata.String("SPI"),
			}),
			"controller_specs": metadata.Map(metadata.Fields{
				"model":      metadata.String("Raspberry Pi Pico 2"),
				"processor":  metadata.String("ARM Cortex-M33"),
				"frequency":  metadata.String("150 MHz"),
				"ram":        metadata.String("520 KB"),
				"flash":      metadata.String("4 MB"),
				"gpio_pins":  metadata.Int(26),
				"interfaces": metadata.Strings("SPI", "I2C", "UART"),
			}),
			"features": metadata.Strings(
				"Real-time dew point calculation",
				"Multi-sensor environmental monitoring",
				"Calibration support",
				"Data logging",
				"Low-power operation",
				"MicroPython optimized",
				"Graphical LCD display",
				"Sensor fusion",
			),
			"pin_configuration": metadata.Map(metadata.Fields{
				"display_spi":   metadata.String("SPI0"),
				"display_cs":    metadata.String("GPIO17"),
				"display_dc":    metadata.String("GPIO18"),
				"display_reset": metadata.String("GPIO19"),
				"sensor_i2c":    metadata.String("I2C1"),
				"sensor_sda":    metadata.String("GPIO2"),
				"sensor_scl":    metadata.String("GPIO3"),
			}),
			"dew_point_sensors": metadata.List(
				metadata.Map(metadata.Fields{
					"name":              metadata.String("SHT41"),
					"address":           metadata.String("0x44"),
					"type":              metadata.String("Indoor humidity/temperature"),
					"accuracy_temp":     metadata.String("+/-1.5 C"),
					"accuracy_humidity": metadata.String("+/-3 RH"),
				}),
				metadata.Map(metadata.Fields{
					"name":              metadata.String("AHT20"),
					"address":           metadata.String("0x38"),
					"type":              metadata.String("Ambient humidity/temperature"),
					"accuracy_temp":     metadata.String("+/-2 C"),
					"accuracy_humidity": metadata.String("+/-5 RH"),
				}),
				metadata.Map(metadata.Fields{
					"name":              metadata.String("BMP280"),
					"address":           metadata.String("0x76"),
					"type":              metadata.String("Barometric pressure"),
					"measurement_range": metadata.String("300-1100 hPa"),
					"accuracy_pressure": metadata.String("+/-1 hPa"),
				}),
			),
			"calculation_algorithms": metadata.Strings(
				"Magnus dew point approximation",
				"Sensor fusion for accuracy",
				"Temperature compensation",
				"Pressure-adjusted calculations",
			),
		},
	)
}

// TaupunktAdvanced adds cloud connectivity and a web interface to Taupunkt.
func TaupunktAdvanced() (Definition, error) {
	base, err := Taupunkt()
	if err != nil {
		return Definition{}, err
	}
	return base.Extend(Extension{
		Name:        "Taupunkt Advanced - Cloud Connected",
		Description: "Advanced MicroPython project with cloud connectivity, web interface, and data analytics. Includes MQTT, RESTful API, and long-term data logging.",
		Paths: []string{
			"src/connectivity/mqtt.py",
			"src/connectivity/wifi.py",
			"src/connectivity/api.py",
			"src/storage/database.py",
			"src/storage/cloud_sync.py",
			"web/app.py",
			"web/templates/index.html",
			"web/templates/dashboard.html",
			"web/static/style.css",
			"web/static/chart.js",
			"docs/software/mqtt_integration.md",
			"docs/software/web_api.md",
		},
		Metadata: metadata.Fields{
			metadata.KeyDependencies: metadata.Strings("micropython-mqtt", "micropython-requests", "micropython-json"),
			"features": metadata.Strings(
				"MQTT connectivity",
				"Web dashboard",
				"Cloud data sync",
				"RESTful API",
				"Historical analytics",
				"Real-time notifications",
			),
			"advanced_features": metadata.Map(metadata.Fields{
				"connectivity":  metadata.Strings("WiFi", "MQTT", "REST API"),
				"storage":       metadata.Strings("Local database", "Cloud sync"),
				"web_interface": metadata.Strings("Real-time dashboard", "Analytics"),
			}),
		},
	})
}
