package diag

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the package-wide structured logger. Tests may redirect its
// output; production code only ever logs through this value so that a
// single place controls verbosity (mirrors the teacher's logEnable gate
// around every exec.Command invocation).
var Logger = newLogger()

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("CARGO_XTEST_DATA_VERBOSE") != "" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Command logs a subprocess invocation at debug level, fields matching
// what an operator needs to reproduce it by hand.
func Command(op, dir string, args []string) {
	Logger.WithFields(logrus.Fields{
		"op":   op,
		"dir":  dir,
		"args": args,
	}).Debug("executing subprocess")
}
