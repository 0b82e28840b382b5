package util

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/squirt/pkg/config"
	"github.com/sidkik/squirt/pkg/errors"
)

// ErrMissingHost is returned when a command that talks to a daemon is run
// without a host.
var ErrMissingHost = errors.NewFriendlyError(
	"A host is required. Pass the name or address of the machine " +
		"running `squirt daemon` as the first argument.")

// Mocked out for unit testing.
var (
	exit            = os.Exit
	parseUserConfig = config.Parse
)

// HandleFatalError logs `err` and exits. Friendly errors are printed as is,
// since they're meant to be read by the user.
func HandleFatalError(err error) {
	if friendlyErr, ok := errors.RootCause(err).(errors.FriendlyError); ok {
		fmt.Fprintln(os.Stderr, friendlyErr.FriendlyMessage())
	} else {
		log.WithError(err).Error("Fatal error")
	}
	exit(1)
}

// HandlePanic logs a panic with its stack trace, and exits. It's deferred at
// the start of every goroutine.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("Unexpected panic")
		exit(1)
	}
}

// Connect resolves the daemon address for the host in `args[0]`, and returns
// it along with the rest of the arguments and the parsed config. A non-zero
// `port` overrides the configured one.
func Connect(args []string, port int) (string, []string, config.Config, error) {
	if len(args) == 0 || args[0] == "" {
		return "", nil, config.Config{}, ErrMissingHost
	}

	cfg, err := parseUserConfig()
	if err != nil {
		return "", nil, config.Config{}, errors.WithContext(err, "parse config")
	}

	if port != 0 {
		cfg.Port = port
	}
	return cfg.Address(args[0]), args[1:], cfg, nil
}
