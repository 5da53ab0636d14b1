package config

const (
	defaultScratchDir           = "~/.local/share/clipscribe/scratch"
	defaultDataDir              = "~/.local/share/clipscribe"
	defaultLogDir               = "~/.local/share/clipscribe/logs"
	defaultStoreFile            = "clips.db"
	defaultCheckTimeoutSeconds  = 30
	defaultFetchTimeoutSeconds  = 600
	defaultUserAgent            = "clipscribe/0.1"
	defaultFFmpegBinary         = "ffmpeg"
	defaultWhisperBinary        = "whisper.cpp/main"
	defaultWhisperModel         = "whisper.cpp/models/ggml-large-v3.bin"
	defaultWhisperThreads       = 16
	defaultPrepConcurrency      = 8
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultDiscordAliasHost     = "cdn.discordapp.com"
	defaultDiscordCanonicalHost = "media.discordapp.net"
	maxPrepConcurrency          = 64
	maxWhisperThreads           = 256
	defaultEnvFile              = ".env"
	envStorePath                = "CLIPSCRIBE_DB"
	envScratchDir               = "CLIPSCRIBE_SCRATCH_DIR"
	envNtfyTopic                = "CLIPSCRIBE_NTFY_TOPIC"
	envWhisperModel             = "CLIPSCRIBE_WHISPER_MODEL"
	defaultConfigLocation       = "~/.config/clipscribe/config.toml"
	projectConfigFile           = "clipscribe.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir: defaultScratchDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Links: Links{
			Aliases: map[string]string{
				defaultDiscordAliasHost: defaultDiscordCanonicalHost,
			},
			CheckTimeoutSeconds: defaultCheckTimeoutSeconds,
			UserAgent:           defaultUserAgent,
		},
		Fetch: Fetch{
			TimeoutSeconds: defaultFetchTimeoutSeconds,
		},
		FFmpeg: FFmpeg{
			Binary: defaultFFmpegBinary,
		},
		Whisper: Whisper{
			Binary:  defaultWhisperBinary,
			Model:   defaultWhisperModel,
			Threads: defaultWhisperThreads,
		},
		Workflow: Workflow{
			PrepConcurrency: defaultPrepConcurrency,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			RunCompleted:   true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
