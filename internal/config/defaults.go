package config

const (
	defaultRawArtifactsRoot = "test-results"
	defaultRunsRoot         = "e2e-runs"
	defaultLogDir           = "~/.local/share/testreel/logs"
	defaultRunnerCommand    = "npx"
	defaultRunnerTimeoutMin = 60
	defaultDisplayMode      = "auto"
	defaultOffscreenX       = -4000
	defaultOffscreenY       = -4000
	defaultFFmpeg           = "ffmpeg"
	defaultFFprobe          = "ffprobe"
	defaultFrameWidth       = 1280
	defaultFrameHeight      = 720
	defaultFrameRate        = 30
	defaultIntroSeconds     = 3.0
	defaultFailedSeconds    = 4.0
	defaultBackground       = "0x1f2430"
	defaultOutputName       = "combined-e2e-run.mp4"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RawArtifactsRoot: defaultRawArtifactsRoot,
			RunsRoot:         defaultRunsRoot,
			LogDir:           defaultLogDir,
		},
		Runner: Runner{
			Command:        defaultRunnerCommand,
			Args:           []string{"playwright", "test"},
			TimeoutMinutes: defaultRunnerTimeoutMin,
		},
		Display: Display{
			Mode:       defaultDisplayMode,
			OffscreenX: defaultOffscreenX,
			OffscreenY: defaultOffscreenY,
		},
		Video: Video{
			FFmpeg:        defaultFFmpeg,
			FFprobe:       defaultFFprobe,
			Width:         defaultFrameWidth,
			Height:        defaultFrameHeight,
			FPS:           defaultFrameRate,
			IntroSeconds:  defaultIntroSeconds,
			FailedSeconds: defaultFailedSeconds,
			Background:    defaultBackground,
			OutputName:    defaultOutputName,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
