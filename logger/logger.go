package logger

import (
	"io"
	"os"
	"sync"

	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
)

var (
	outputLock sync.Mutex
	output     io.Writer = os.Stderr
)

const projectName = "metronome"

// GetProjectLogger returns a logger for the project. Every call creates a fresh entry so the global level and output
// set below are always honoured.
func GetProjectLogger() *logrus.Entry {
	entry := logrus.NewEntry(logging.GetLogger(projectName))

	outputLock.Lock()
	defer outputLock.Unlock()
	entry.Logger.SetOutput(output)

	return entry
}

// SetLevel parses a logrus level name and applies it to every logger created afterwards.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logging.SetGlobalLogLevel(lvl)
	return nil
}

// SetOutput redirects every logger created afterwards. The TUI uses this to keep log lines off the terminal.
func SetOutput(w io.Writer) {
	outputLock.Lock()
	defer outputLock.Unlock()
	output = w
}
