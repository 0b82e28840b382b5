package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sidkik/squirt/cmd/util"
	"github.com/sidkik/squirt/pkg/backup"
	"github.com/sidkik/squirt/pkg/client"
	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/snapshot"
)

// Mocked for unit testing.
var (
	stdout    io.Writer = os.Stdout
	newClient           = client.New
)

// New creates a new `backup` command.
func New() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "backup HOST DIR",
		Short: "Download the files in a remote directory that changed",
		Long: "Download the files directly inside DIR on HOST that changed\n" +
			"since the last backup. A snapshot of every downloaded file's\n" +
			"attributes is kept in the cache directory, and the files whose\n" +
			"attributes still match their snapshot are skipped.",
		Run: func(_ *cobra.Command, args []string) {
			addr, rest, cfg, err := util.Connect(args, port)
			if err != nil {
				util.HandleFatalError(err)
			}

			if len(rest) != 1 {
				util.HandleFatalError(errors.NewFriendlyError(
					"Exactly one remote directory is required."))
			}

			engine := backup.Engine{
				Client:      newClient(addr),
				Store:       snapshot.NewStore(cfg.CacheDir),
				LocalDir:    cfg.LocalDir,
				NewProgress: newProgress,
			}
			if err := run(engine, rest[0]); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().IntVar(&port, "port", 0,
		"The port the daemon listens on. Overrides the configured port.")
	return cmd
}

func newProgress(name string) client.Progress {
	fmt.Fprintf(stdout, "sucking %s\n", name)
	return util.NewProgress()
}

func run(engine backup.Engine, remoteDir string) error {
	result, err := engine.Run(remoteDir)
	printSummary(result)
	if err != nil {
		return errors.WithContext(err, "backup")
	}
	return nil
}

func printSummary(result backup.Result) {
	fmt.Fprintf(stdout, "%d transferred (%s), %d unchanged\n",
		len(result.Transferred), humanize.Bytes(result.Bytes), len(result.Unchanged))
}
