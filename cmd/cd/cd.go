package cd

import (
	"github.com/spf13/cobra"

	"github.com/sidkik/squirt/cmd/util"
	"github.com/sidkik/squirt/pkg/client"
	"github.com/sidkik/squirt/pkg/errors"
)

// Mocked for unit testing.
var newClient = client.New

// New creates a new `cd` command.
func New() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "cd HOST PATH",
		Short: "Change the working directory of the daemon",
		Long: "Change the working directory of the daemon on HOST. It stays\n" +
			"in effect for later commands until the daemon restarts.",
		Run: func(_ *cobra.Command, args []string) {
			addr, rest, _, err := util.Connect(args, port)
			if err != nil {
				util.HandleFatalError(err)
			}

			if len(rest) != 1 {
				util.HandleFatalError(errors.NewFriendlyError(
					"Exactly one directory is required."))
			}

			if err := run(newClient(addr), rest[0]); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().IntVar(&port, "port", 0,
		"The port the daemon listens on. Overrides the configured port.")
	return cmd
}

func run(c client.Client, path string) error {
	ok, err := c.Cd(path)
	if err != nil {
		return errors.WithContext(err, "change directory")
	}

	if !ok {
		return errors.NewFriendlyError("Failed to change directory to %q. "+
			"It doesn't exist, or isn't a directory.", path)
	}
	return nil
}
