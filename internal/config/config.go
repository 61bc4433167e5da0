package config

import (
	"fmt"
	"time"
)

type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Server      ServerConfig      `yaml:"server"`
	Queue       QueueConfig       `yaml:"queue"`
	Poll        PollConfig        `yaml:"poll"`
	Gemini      GeminiConfig      `yaml:"gemini"`
}

type StorageConfig struct {
	Bucket     string        `yaml:"bucket"`
	Region     string        `yaml:"region"`
	Endpoint   string        `yaml:"endpoint"`
	PathStyle  bool          `yaml:"path_style"`
	PresignTTL time.Duration `yaml:"presign_ttl"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

// Validate reports the first missing setting the transcription engine needs.
func (w WhisperConfig) Validate() error {
	if w.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if w.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	return nil
}

type FFmpegConfig struct {
	BinaryPath   string `yaml:"binary_path"`
	VideoBitrate string `yaml:"video_bitrate"`
	AudioCodec   string `yaml:"audio_codec"`
	Encoder      string `yaml:"encoder"`
	Preset       string `yaml:"preset"`
}

type PathsConfig struct {
	Scratch string `yaml:"scratch"`
	Inbox   string `yaml:"inbox"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// QueueConfig selects how transcription jobs are handed off.
// Driver is "local" (in-process pool) or "rabbitmq".
type QueueConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
	Name   string `yaml:"name"`
}

// PollConfig is the caller-side polling policy used by ingest.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

const (
	QueueDriverLocal    = "local"
	QueueDriverRabbitMQ = "rabbitmq"

	DefaultBucket = "video-subtitler"
)

// Validate checks the settings every subcommand depends on. Engine settings
// are checked by WhisperConfig.Validate where the engine is built.
func (c *Config) Validate() error {
	if c.FFmpeg.Encoder == "" {
		return fmt.Errorf("ffmpeg.encoder is required")
	}

	switch c.Queue.Driver {
	case "":
		c.Queue.Driver = QueueDriverLocal
	case QueueDriverLocal:
	case QueueDriverRabbitMQ:
		if c.Queue.URL == "" {
			return fmt.Errorf("queue.url is required for the rabbitmq driver")
		}
	default:
		return fmt.Errorf("queue.driver: unsupported value %q", c.Queue.Driver)
	}

	if c.Storage.Bucket == "" {
		c.Storage.Bucket = DefaultBucket
	}
	if c.Storage.Region == "" {
		c.Storage.Region = "us-east-1"
	}
	if c.Storage.PresignTTL <= 0 {
		c.Storage.PresignTTL = time.Hour
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "copy"
	}
	if c.Paths.Scratch == "" {
		c.Paths.Scratch = "data/scratch"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Queue.Name == "" {
		c.Queue.Name = "transcriptor"
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = 5 * time.Second
	}
	if c.Poll.Timeout <= 0 {
		c.Poll.Timeout = 30 * time.Minute
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}

	return nil
}
