package template

import (
	"github.com/lokal-dev/lokal/internal/metadata"
	"github.com/lokal-dev/lokal/internal/structure"
)

// fromPaths builds a definition whose structure is given as slash paths.
func fromPaths(name, description string, paths []string, fields metadata.Fields) (Definition, error) {
	tree, err := structure.FromPaths(paths...)
	if err != nil {
		return Definition{}, err
	}
	return New(name, description, tree, fields)
}

// SmartHome is the starter for WLED based LED controllers.
func SmartHome() (Definition, error) {
	return fromPaths(
		"Smart Home Controller",
		"Starter template for WLED based LED controllers.",
		[]string{
			"src/main.py",
			"src/controller/",
			"docs/hardware/README.md",
			"assets/",
			"config/wled_config.json",
			"README.md",
		},
		metadata.Fields{
			metadata.KeyDependencies: metadata.Strings("wled", "fastled"),
			metadata.KeyConfigFiles:  metadata.Strings("config/wled_config.json"),
		},
	)
}

// Automation sets up build and deployment pipelines.
func Automation() (Definition, error) {
	return fromPaths(
		"CI/CD Automation",
		"Setup for automated build and deployment pipelines.",
		[]string{
			".github/workflows/ci.yml",
			".github/workflows/cd.yml",
			"scripts/deploy.sh",
			"docs/automation/README.md",
			"README.md",
		},
		metadata.Fields{
			metadata.KeyDependencies: metadata.Strings("docker", "github-actions"),
			metadata.KeyConfigFiles:  metadata.Strings(".github/workflows/ci.yml", ".github/workflows/cd.yml"),
		},
	)
}

// GameDev is the boilerplate for a Flutter card game.
func GameDev() (Definition, error) {
	return fromPaths(
		"Flutter Card Game",
		"Boilerplate for a Flutter card game project.",
		[]string{
			"lib/main.dart",
			"assets/images/",
			"docs/README.md",
			"config/pubspec.yaml",
		},
		metadata.Fields{
			metadata.KeyDependencies: metadata.Strings("flutter", "provider"),
			metadata.KeyConfigFiles:  metadata.Strings("pubspec.yaml"),
		},
	)
}
