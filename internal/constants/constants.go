package constants

const (
	AppName        = `sleuth`
	Version        = `0.1.0`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.sleuth/`
	StateFile      = `state.yaml`
	LogFile        = `sleuth.log`
	EnvPrefix      = `SLEUTH`
)
