package providers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"statcache/internal/structures"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeStore
)

var logTypeNames = map[TypeEnum]string{
	TypeApp:   "app",
	TypeGet:   "get",
	TypePost:  "post",
	TypeStore: "store",
}

func (t TypeEnum) String() string {
	if name, ok := logTypeNames[t]; ok {
		return name
	}
	return "app"
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

// LogProvider keeps one zerolog logger per log type, each writing JSON
// lines into <dir>/<type>.log with size based rotation.
type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	closers []io.Closer
}

func (lp *LogProvider) get(t TypeEnum) *zerolog.Logger {
	l, ok := lp.loggers[t]
	if !ok {
		l = lp.loggers[TypeApp]
	}
	return &l
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Error().Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Warn().Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Debug().Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Info().Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Fatal().Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	for _, c := range lp.closers {
		_ = c.Close()
	}
	lp.closers = nil
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == http.MethodPost {
		return TypePost
	}
	return TypeGet
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	info, err := os.Stat(conf.Logger.Dir)
	if err != nil {
		return nil, fmt.Errorf("log directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("log directory %s is not a directory", conf.Logger.Dir)
	}

	lp := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(logTypeNames))}
	for t, name := range logTypeNames {
		path := filepath.Join(conf.Logger.Dir, name+".log")

		// lumberjack creates files 0600, so the file is created up front with the configured mode
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			lp.Close()
			return nil, fmt.Errorf("unable to open log file %s: %w", path, err)
		}
		_ = f.Close()

		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    conf.Logger.MaxSize,
			MaxBackups: conf.Logger.MaxBackups,
			Compress:   conf.Logger.Compress,
			LocalTime:  true,
		}
		lp.closers = append(lp.closers, rotator)

		var out io.Writer = rotator
		if conf.Debug {
			out = zerolog.MultiLevelWriter(rotator, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
		}
		lp.loggers[t] = zerolog.New(out).Level(level).With().Timestamp().Str("type", name).Logger()
	}

	return lp, nil
}
