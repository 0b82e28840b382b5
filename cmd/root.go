package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/squirt/cmd/backup"
	"github.com/sidkik/squirt/cmd/cd"
	"github.com/sidkik/squirt/cmd/cwd"
	"github.com/sidkik/squirt/cmd/daemon"
	"github.com/sidkik/squirt/cmd/dir"
	execCmd "github.com/sidkik/squirt/cmd/exec"
	"github.com/sidkik/squirt/cmd/suck"
	"github.com/sidkik/squirt/cmd/util"
	"github.com/sidkik/squirt/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "SQUIRT_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	var verbose bool
	rootCmd := &cobra.Command{
		Use:          "squirt",
		Short:        "Transfer files and run commands on a remote squirt daemon",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debug messages. Equivalent to setting "+verboseLogKey+"=true.")
	rootCmd.AddCommand(
		backup.New(),
		cd.New(),
		cwd.New(),
		daemon.New(),
		dir.New(),
		execCmd.New(),
		suck.New(),
		version.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
