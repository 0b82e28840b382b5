package dir

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/squirt/pkg/client/mocks"
	"github.com/sidkik/squirt/pkg/direntry"
	"github.com/sidkik/squirt/pkg/errors"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	stdout = &out
	colorize = func() bool { return false }

	comment := "boot script"
	mockClient := new(mocks.Client)
	mockClient.On("Dir", "SYS:s").Return(direntry.List{
		{
			Name:      "startup-sequence",
			Type:      direntry.TypeFile,
			Size:      1234,
			Prot:      direntry.ProtScript,
			DateStamp: direntry.DateStamp{Days: 0, Mins: 61, Ticks: 150},
			Comment:   &comment,
		},
		{
			Name: "old",
			Type: direntry.TypeUserDir,
			Prot: direntry.ProtDelete,
		},
	}, nil)

	assert.NoError(t, run(mockClient, "SYS:s"))
	assert.Equal(t,
		"startup-sequence  1,234  -s--rwed  01-Jan-78 01:01:03  : boot script\n"+
			"old"+strings.Repeat(" ", 15)+"(dir)  ----rwe-  01-Jan-78 00:00:00\n"+
			"1 files - 1 directories - 1.2 kB\n",
		out.String())
}

func TestRunError(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("Dir", "").Return(nil, errors.ConnectionError{Op: "connect"})
	assert.Error(t, run(mockClient, ""))
}
