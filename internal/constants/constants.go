package constants

const (
	AppName = "lokal"

	// Config
	ConfigDirName       = ".lokal"
	ConfigFileName      = "config.yaml"
	TemplatesDirName    = "templates"
	EnvPrefix           = "LOKAL"
	DefaultEnvFileName  = ".env"
	DefaultPython       = "python3"
	DefaultInstallTries = 3

	// Generated projects
	ReadmeFileName = "README.md"

	// Output formats
	OutputTable = "table"
	OutputText  = "text"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)
