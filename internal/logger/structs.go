package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool // human readable output instead of JSON
}

// RollingFile describes one lumberjack managed log file.
type RollingFile struct {
	Name       string // file name below LogFile.Path
	MaxSize    int    // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// LogFile implements a file based logger with one file per level group.
type LogFile struct {
	Enabled bool
	Path    string

	Access RollingFile
	Error  RollingFile
	Info   RollingFile
	Trace  RollingFile
	Warn   RollingFile
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error

	// EnableAccessLogToConsole writes the fiber access log to stdout.
	// Console.Enabled must be true as well.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	Console Console
	File    LogFile
}
