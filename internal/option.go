package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config       *Config
	settingsPath string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSettingsPath overrides the per-user settings blob location.
func WithSettingsPath(path string) Option {
	return func(a *application) {
		a.settingsPath = path
	}
}
