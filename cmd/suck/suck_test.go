package suck

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sidkik/squirt/pkg/client/mocks"
	"github.com/sidkik/squirt/pkg/errors"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	stdout = &out

	start := time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{start, start.Add(2 * time.Second)}
	now = func() time.Time {
		t := times[0]
		times = times[1:]
		return t
	}

	mockClient := new(mocks.Client)
	mockClient.On("Suck", "Work:docs/big", "big", mock.Anything).
		Return(uint32(1234567), nil)

	assert.NoError(t, run(mockClient, "Work:docs/big", "big"))
	assert.Equal(t, "sucking Work:docs/big\n"+
		"sucked Work:docs/big -> big (1,234,567 bytes) in 2.00 seconds 617 kB/s\n",
		out.String())
	mockClient.AssertExpectations(t)
}

func TestRunError(t *testing.T) {
	stdout = &bytes.Buffer{}
	now = time.Now

	mockClient := new(mocks.Client)
	mockClient.On("Suck", "Work:missing", "missing", mock.Anything).
		Return(uint32(0), errors.FramingError{Op: "recv", Want: 4})

	err := run(mockClient, "Work:missing", "missing")
	_, ok := errors.RootCause(err).(errors.FramingError)
	assert.True(t, ok, "unexpected error: %v", err)
}

func TestLocalPathFor(t *testing.T) {
	tests := []struct {
		remotePath, output, localDir string
		exp                          string
		expErr                       bool
	}{
		{remotePath: "Work:docs/readme", exp: "readme"},
		{remotePath: "Work:readme", localDir: "/backups", exp: "/backups/readme"},
		{remotePath: "Work:readme", output: "other", localDir: "/backups", exp: "other"},
		{remotePath: "Work:", expErr: true},
		{remotePath: "Work:", output: "work", exp: "work"},
	}

	for _, test := range tests {
		path, err := localPathFor(test.remotePath, test.output, test.localDir)
		if test.expErr {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, test.exp, path)
		}
	}
}
