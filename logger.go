package main

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the logger shared by every component. When logFile is set the output is also
// written to a rotating file, which the returned closer releases.
func newLogger(verbose bool, logFile string) (*logrus.Logger, io.Closer) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if logFile == "" {
		return log, nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename: logFile,
		MaxSize:  10,
		Compress: true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return log, file
}
