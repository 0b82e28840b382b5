package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/sidkik/squirt/pkg/errors"
)

func TestParse(t *testing.T) {
	out := ".squirt.yaml"

	tests := []struct {
		name      string
		input     string
		expConfig Config
		expError  error
	}{
		{
			name:      "Empty",
			input:     "",
			expConfig: Default(),
		},
		{
			name:  "AllFields",
			input: "version: v1\nport: 7000\ncacheDir: /backups/meta\nlocalDir: /backups/files\n",
			expConfig: Config{
				Version:  SupportedConfigVersion,
				Port:     7000,
				CacheDir: "/backups/meta",
				LocalDir: "/backups/files",
			},
		},
		{
			name:  "NoVersion",
			input: "port: 7000\n",
			expConfig: Config{
				Version:  SupportedConfigVersion,
				Port:     7000,
				CacheDir: ".squirt",
			},
		},
		{
			name:  "IncorrectVersion",
			input: "version: v0\nextra: fields\n",
			expError: incompatibleVersionError{
				path:   out,
				exp:    SupportedConfigVersion,
				actual: "v0",
			},
		},
		{
			name:  "ExtraFields",
			input: "version: v1\nextra: fields\n",
			expError: errors.NewFriendlyError(parseConfigErrTemplate, out,
				errors.New("error unmarshaling JSON: while decoding JSON: "+
					`json: unknown field "extra"`)),
		},
		{
			name:     "InvalidPort",
			input:    "port: 70000\n",
			expError: errors.NewFriendlyError("The port 70000 in \".squirt.yaml\" is not a valid TCP port."),
		},
	}

	fs = afero.NewMemMapFs()
	homedirExpand = func(_ string) (string, error) {
		return out, nil
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.NoError(t, afero.WriteFile(fs, out, []byte(test.input), 0644))
			config, err := Parse()
			assert.Equal(t, test.expConfig, config)
			assert.Equal(t, test.expError, err)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	fs = afero.NewMemMapFs()
	homedirExpand = func(_ string) (string, error) {
		return "/home/user/.squirt.yaml", nil
	}

	config, err := Parse()
	assert.NoError(t, err)
	assert.Equal(t, Default(), config)
}

func TestAddress(t *testing.T) {
	config := Default()

	tests := []struct {
		host string
		exp  string
	}{
		{"amiga", "amiga:6969"},
		{"192.168.1.20", "192.168.1.20:6969"},
		{"amiga:7000", "amiga:7000"},
		{"fe80::1", "[fe80::1]:6969"},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, config.Address(test.host))
	}
}
