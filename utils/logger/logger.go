package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/singer-io/tap-amazon-sp/constants"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(consoleWriter(os.Stderr)).With().Timestamp().Logger()
}

// stdout carries the singer messages, so the console logs always go to stderr
func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
}

// Init configures the level from LOG_LEVEL and adds a rotating file log under
// the config folder unless saving is disabled
func Init() {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString(constants.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	writers := []io.Writer{consoleWriter(os.Stderr)}
	if folder := viper.GetString(constants.ConfigFolder); folder != "" && !viper.GetBool(constants.NoSave) {
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(folder, constants.LogsFolder, fmt.Sprintf("sync_%s.log", time.Now().UTC().Format("2006-01-02_15-04-05"))),
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
		})
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
}

// SetOutput replaces every writer of the logger
func SetOutput(out io.Writer) {
	logger = logger.Output(out)
}

func Info(v ...any) {
	logger.Info().Msg(fmt.Sprint(v...))
}

func Infof(format string, v ...any) {
	logger.Info().Msgf(format, v...)
}

func Debug(v ...any) {
	logger.Debug().Msg(fmt.Sprint(v...))
}

func Debugf(format string, v ...any) {
	logger.Debug().Msgf(format, v...)
}

func Warn(v ...any) {
	logger.Warn().Msg(fmt.Sprint(v...))
}

func Warnf(format string, v ...any) {
	logger.Warn().Msgf(format, v...)
}

func Error(v ...any) {
	logger.Error().Msg(fmt.Sprint(v...))
}

func Errorf(format string, v ...any) {
	logger.Error().Msgf(format, v...)
}

// Fatal logs and exits with status 1
func Fatal(v ...any) {
	logger.Fatal().Msg(fmt.Sprint(v...))
}

// FileLogger persists content as indented JSON in the config folder
func FileLogger(content any, fileName, fileExtension string) error {
	if viper.GetBool(constants.NoSave) {
		return nil
	}

	folder := viper.GetString(constants.ConfigFolder)
	if folder == "" {
		return fmt.Errorf("config folder not set")
	}

	return FileLoggerWithPath(content, filepath.Join(folder, fileName+fileExtension))
}

func FileLoggerWithPath(content any, path string) error {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal content: %s", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create folder for %s: %s", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %s", path, err)
	}

	Debugf("written %s", path)
	return nil
}
