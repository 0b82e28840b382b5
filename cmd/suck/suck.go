package suck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

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
	now                 = time.Now
)

var errMissingFile = errors.NewFriendlyError("The remote file to download is required.")

// New creates a new `suck` command.
func New() *cobra.Command {
	var port int
	var output string
	cmd := &cobra.Command{
		Use:   "suck HOST FILE",
		Short: "Download a file from the remote host",
		Long: "Download FILE from the squirt daemon on HOST. The file is\n" +
			"written to the working directory under its remote name,\n" +
			"unless --output is set.",
		Run: func(_ *cobra.Command, args []string) {
			addr, rest, cfg, err := util.Connect(args, port)
			if err != nil {
				util.HandleFatalError(err)
			}

			if len(rest) != 1 {
				util.HandleFatalError(errMissingFile)
			}

			localPath, err := localPathFor(rest[0], output, cfg.LocalDir)
			if err != nil {
				util.HandleFatalError(err)
			}

			if err := run(newClient(addr), rest[0], localPath); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().IntVar(&port, "port", 0,
		"The port the daemon listens on. Overrides the configured port.")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"The local path to write the file to.")
	return cmd
}

// localPathFor returns where the download of `remotePath` is written.
func localPathFor(remotePath, output, localDir string) (string, error) {
	if output != "" {
		return output, nil
	}

	name := direntry.BaseName(remotePath)
	if name == "" {
		return "", errors.NewFriendlyError("Cannot determine a local name for %q. "+
			"Please set --output.", remotePath)
	}
	return filepath.Join(localDir, name), nil
}

func run(c client.Client, remotePath, localPath string) error {
	fmt.Fprintf(stdout, "sucking %s\n", remotePath)
	start := now()
	n, err := c.Suck(remotePath, localPath, util.NewProgress())
	if err != nil {
		return errors.WithContext(err, "suck "+remotePath)
	}

	elapsed := now().Sub(start)
	fmt.Fprintf(stdout, "sucked %s -> %s (%s bytes) in %0.2f seconds %s\n",
		remotePath, localPath, humanize.Comma(int64(n)), elapsed.Seconds(),
		util.FormatSpeed(uint64(n), elapsed))
	return nil
}
