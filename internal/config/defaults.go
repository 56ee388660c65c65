package config

// DefaultFragmentsName is the file inside the defaults directory that carries
// fallback fragments for letters.
const DefaultFragmentsName = "default.pap"

const (
	defaultConfigPath  = "~/.config/papeterie/config.toml"
	defaultDefaultsDir = "~/.config/papeterie/defaults"
	legacyDefaultsDir  = "~/.papeterie"
	defaultLatexBinary = "pdflatex"
	defaultGPGBinary   = "gpg2"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultFileLevel   = "debug"

	envGPGKey  = "PAPETERIE_GPG_KEY"
	envGPGHome = "GNUPGHOME"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DefaultsDir: defaultDefaultsDir,
		},
		Latex: Latex{
			Binary: defaultLatexBinary,
		},
		GPG: GPG{
			Binary: defaultGPGBinary,
		},
		Logging: Logging{
			Format:    defaultLogFormat,
			Level:     defaultLogLevel,
			FileLevel: defaultFileLevel,
		},
	}
}
