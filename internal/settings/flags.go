package settings

import (
	"github.com/spf13/cobra"
)

type Flag struct {
	Name  string
	Short string
}

type flagNames struct {
	Verbose          Flag
	CliEnvFile       Flag
	ConfigFile       Flag
	TemplatesDir     Flag
	Template         Flag
	Output           Flag
	Library          Flag
	Source           Flag
	Venv             Flag
	Install          Flag
	Python           Flag
	InstallAttempts  Flag
	Symlinks         Flag
	PermissionDenied Flag
	NonInteractive   Flag
}

var Flags = flagNames{
	Verbose:          Flag{"verbose", "v"},
	CliEnvFile:       Flag{"env", "e"},
	ConfigFile:       Flag{"config", ""},
	TemplatesDir:     Flag{"templates-dir", ""},
	Template:         Flag{"template", "t"},
	Output:           Flag{"output", "o"},
	Library:          Flag{"library", "l"},
	Source:           Flag{"source", "s"},
	Venv:             Flag{"venv", ""},
	Install:          Flag{"install", ""},
	Python:           Flag{"python", ""},
	InstallAttempts:  Flag{"install-attempts", ""},
	Symlinks:         Flag{"symlinks", ""},
	PermissionDenied: Flag{"permission-denied", ""},
	NonInteractive:   Flag{"non-interactive", ""},
}

// AddScanFlags registers the flags overriding the configured scan policies.
func AddScanFlags(cmd *cobra.Command) {
	cmd.Flags().String(Flags.Symlinks.Name, "", "How to treat symbolic links while scanning: follow, skip or error")
	cmd.Flags().String(Flags.PermissionDenied.Name, "", "How to treat unreadable entries while scanning: error or skip")
}

// AddEnvironmentFlags registers the flags of the virtual environment setup.
func AddEnvironmentFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(Flags.Venv.Name, false, "Create a Python virtual environment in the generated project")
	cmd.Flags().Bool(Flags.Install.Name, false, "Install the template dependencies into the virtual environment (implies --venv)")
	cmd.Flags().String(Flags.Python.Name, "", "Python interpreter used to create the virtual environment")
	cmd.Flags().Uint(Flags.InstallAttempts.Name, 0, "How often a failing dependency install is tried")
}
