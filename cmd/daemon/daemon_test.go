package daemon

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/squirt/pkg/daemon"
	"github.com/sidkik/squirt/pkg/errors"
)

type stubPlatform struct {
	daemon.Platform
	dirs map[string]bool
}

func (p stubPlatform) ChangeDirectory(path string) bool {
	return p.dirs[path]
}

type closedListener struct {
	net.Listener
}

func (closedListener) Accept() (net.Conn, error) {
	return nil, errors.New("closed")
}

func (closedListener) Close() error {
	return nil
}

func (closedListener) Addr() net.Addr {
	return &net.TCPAddr{Port: 6969}
}

func TestRun(t *testing.T) {
	var listenedOn string
	listen = func(_, address string) (net.Listener, error) {
		listenedOn = address
		return closedListener{}, nil
	}
	platform := stubPlatform{dirs: map[string]bool{"/srv": true}}

	err := run(":6969", "/srv", platform)
	assert.EqualError(t, err, "accept: closed")
	assert.Equal(t, ":6969", listenedOn)

	listenedOn = ""
	err = run(":6969", "/missing", platform)
	_, ok := errors.RootCause(err).(errors.FriendlyError)
	assert.True(t, ok, "unexpected error: %v", err)
	assert.Empty(t, listenedOn)

	listen = func(string, string) (net.Listener, error) {
		return nil, errors.New("address in use")
	}
	assert.EqualError(t, run(":6969", "", platform), "listen: address in use")
}
