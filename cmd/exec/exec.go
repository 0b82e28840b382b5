package exec

import (
	"io"
	"os"
	"strings"

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

// New creates a new `exec` command.
func New() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "exec HOST COMMAND...",
		Short: "Run a command on the remote host",
		Long: "Run COMMAND on HOST and print its output. The exit status of\n" +
			"the command isn't available, and a command that couldn't be\n" +
			"started looks like a command without output.",
		Run: func(_ *cobra.Command, args []string) {
			addr, rest, _, err := util.Connect(args, port)
			if err != nil {
				util.HandleFatalError(err)
			}

			if len(rest) == 0 {
				util.HandleFatalError(errors.NewFriendlyError("A command is required."))
			}

			if err := run(newClient(addr), strings.Join(rest, " ")); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().IntVar(&port, "port", 0,
		"The port the daemon listens on. Overrides the configured port.")

	// Flags after the host belong to the remote command.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func run(c client.Client, command string) error {
	return errors.WithContext(c.Exec(command, stdout), "exec")
}
