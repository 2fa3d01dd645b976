package config

const (
	defaultLUTDir            = "~/.local/share/lutforge/luts"
	defaultOutputDir         = "~/videos/graded"
	defaultLogDir            = "~/.local/share/lutforge/logs"
	defaultStateDir          = "~/.local/share/lutforge/state"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultQuality           = "medium"
	defaultProgressGrain     = 30
	defaultMaxConcurrentJobs = 2
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LUTDir:    defaultLUTDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		// Tool binaries stay empty here; normalize resolves the
		// LUTFORGE_FFMPEG and LUTFORGE_FFPROBE overrides first.
		Tools: Tools{},
		Pipeline: Pipeline{
			DefaultQuality:    defaultQuality,
			ProgressGrain:     defaultProgressGrain,
			MaxConcurrentJobs: defaultMaxConcurrentJobs,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
