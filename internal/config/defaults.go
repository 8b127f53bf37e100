package config

const (
	defaultIntakeDir      = "~/.local/share/karagen/intake"
	defaultImportDir      = "~/.local/share/karagen/import"
	defaultKarasDir       = "~/karabase/karas"
	defaultMediasDir      = "~/karabase/medias"
	defaultLyricsDir      = "~/karabase/lyrics"
	defaultTagsDir        = "~/karabase/tags"
	defaultSeriesDir      = "~/karabase/series"
	defaultDataDir        = "~/.local/share/karagen/data"
	defaultLogDir         = "~/.local/share/karagen/logs"
	defaultRepositoryName = "kara.moe"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultMediaTimeout   = 600
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			IntakeDir: defaultIntakeDir,
			ImportDir: defaultImportDir,
			KarasDir:  defaultKarasDir,
			MediasDir: defaultMediasDir,
			LyricsDir: defaultLyricsDir,
			TagsDir:   defaultTagsDir,
			SeriesDir: defaultSeriesDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Repository: Repository{
			Name: defaultRepositoryName,
		},
		Media: Media{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			TimeoutSeconds: defaultMediaTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

const sampleConfig = `# karagen configuration

[paths]
# Raw uploads land here (extensions are stripped on upload).
intake_dir = "~/.local/share/karagen/intake"
# Working area for staged copies; cleaned up on failed ingestions.
import_dir = "~/.local/share/karagen/import"
karas_dir = "~/karabase/karas"
medias_dir = "~/karabase/medias"
lyrics_dir = "~/karabase/lyrics"
tags_dir = "~/karabase/tags"
series_dir = "~/karabase/series"
data_dir = "~/.local/share/karagen/data"
log_dir = "~/.local/share/karagen/logs"

[repository]
name = "kara.moe"

[media]
ffmpeg_binary = "ffmpeg"
ffprobe_binary = "ffprobe"
timeout_seconds = 600

[logging]
# console or json
format = "console"
level = "info"
`
