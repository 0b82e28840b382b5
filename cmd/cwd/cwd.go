package cwd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/squirt/cmd/util"
	"github.com/sidkik/squirt/pkg/client"
	"github.com/sidkik/squirt/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout    io.Writer = os.Stdout
	newClient           = client.New
)

// New creates a new `cwd` command.
func New() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "cwd HOST",
		Short: "Print the working directory of the daemon",
		Run: func(_ *cobra.Command, args []string) {
			addr, _, _, err := util.Connect(args, port)
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := run(newClient(addr)); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().IntVar(&port, "port", 0,
		"The port the daemon listens on. Overrides the configured port.")
	return cmd
}

func run(c client.Client) error {
	dir, err := c.Cwd()
	if err != nil {
		return errors.WithContext(err, "get working directory")
	}

	fmt.Fprintln(stdout, dir)
	return nil
}
