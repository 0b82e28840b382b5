package daemon

import (
	"fmt"
	"net"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/squirt/cmd/util"
	"github.com/sidkik/squirt/pkg/daemon"
	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/protocol"
	"github.com/sidkik/squirt/pkg/version"
)

// Mocked for unit testing.
var listen = net.Listen

// New creates a new `daemon` command.
func New() *cobra.Command {
	var address, dir string
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Serve files and commands to squirt clients",
		Long: "Serve the files and commands of this machine to squirt clients.\n" +
			"Connections are handled one at a time. There's no\n" +
			"authentication, so only run the daemon on trusted networks.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(address, dir, daemon.NewHostPlatform()); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&address, "listen", fmt.Sprintf(":%d", protocol.DefaultPort),
		"The address to listen on.")
	cmd.Flags().StringVar(&dir, "dir", "",
		"The initial working directory. Defaults to the current directory.")
	return cmd
}

func run(address, dir string, platform daemon.Platform) error {
	if dir != "" && !platform.ChangeDirectory(dir) {
		return errors.NewFriendlyError("Failed to change directory to %q.", dir)
	}

	lis, err := listen("tcp", address)
	if err != nil {
		return errors.WithContext(err, "listen")
	}
	defer lis.Close()

	log.WithField("version", version.Version).Debug("Starting daemon")
	return daemon.New(platform).Serve(lis)
}
