package dir

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/buger/goterm"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sidkik/squirt/cmd/util"
	"github.com/sidkik/squirt/pkg/client"
	"github.com/sidkik/squirt/pkg/direntry"
	"github.com/sidkik/squirt/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout    io.Writer = os.Stdout
	newClient           = client.New
	colorize            = util.StdoutIsTerminal
)

const timeLayout = "02-Jan-06 15:04:05"

// New creates a new `dir` command.
func New() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "dir HOST [PATH]",
		Short: "List a directory on the remote host",
		Long: "List the entries of PATH on HOST, in the order the remote host\n" +
			"returns them. PATH defaults to the daemon's working directory.",
		Run: func(_ *cobra.Command, args []string) {
			addr, rest, _, err := util.Connect(args, port)
			if err != nil {
				util.HandleFatalError(err)
			}

			var path string
			switch len(rest) {
			case 0:
			case 1:
				path = rest[0]
			default:
				util.HandleFatalError(errors.NewFriendlyError(
					"Only one directory can be listed at a time."))
			}

			if err := run(newClient(addr), path); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().IntVar(&port, "port", 0,
		"The port the daemon listens on. Overrides the configured port.")
	return cmd
}

func run(c client.Client, path string) error {
	list, err := c.Dir(path)
	if err != nil {
		return errors.WithContext(err, "list directory")
	}

	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	var files int
	var bytes uint64
	for _, e := range list {
		name, size := e.Name, humanize.Comma(int64(e.Size))
		if e.IsDir() {
			size = "(dir)"
			if colorize() {
				name = goterm.Color(name, goterm.BLUE)
			}
		} else {
			files++
			bytes += uint64(e.Size)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s", name, size,
			direntry.ProtectionString(e.Prot), e.Time().Format(timeLayout))
		if e.Comment != nil {
			fmt.Fprintf(w, "\t: %s", *e.Comment)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return errors.WithContext(err, "write")
	}

	fmt.Fprintf(stdout, "%d files - %d directories - %s\n",
		files, len(list)-files, humanize.Bytes(bytes))
	return nil
}
