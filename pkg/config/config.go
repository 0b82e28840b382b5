package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/protocol"
	"github.com/sidkik/squirt/pkg/snapshot"
)

const (
	// UserConfigPath is the default path to the squirt config.
	UserConfigPath = "~/.squirt.yaml"

	// SupportedConfigVersion is the config version understood by this
	// binary. Config files that don't specify a version default to it.
	SupportedConfigVersion = "v1"
)

// parseConfigErrTemplate is shown when the config file isn't valid yaml, or
// contains fields of the wrong type or unknown fields. The yaml library loses
// the location of the error, so only its message can be passed on.
const parseConfigErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the config file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// Config contains the client settings.
type Config struct {
	Version string `json:"version,omitempty"`

	// Port is the port the daemon listens on.
	Port int `json:"port,omitempty"`

	// CacheDir is where the backup snapshots are kept. Relative paths are
	// relative to the working directory.
	CacheDir string `json:"cacheDir,omitempty"`

	// LocalDir is where downloaded files are written.
	LocalDir string `json:"localDir,omitempty"`
}

// Default returns the settings used when there's no config file.
func Default() Config {
	return Config{
		Version:  SupportedConfigVersion,
		Port:     protocol.DefaultPort,
		CacheDir: snapshot.DefaultDir,
	}
}

// Address returns the address of the daemon on `host`. A port in `host`
// takes precedence over the configured one.
func (c Config) Address(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Port))
}

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The configuration file %q is incompatible "+
		"with this version of squirt.\n"+
		"Expected version %q, but got %q.", err.path, err.exp, err.actual)
}

// Mocked out for unit testing.
var (
	fs            = afero.NewOsFs()
	homedirExpand = homedir.Expand
)

// Parse reads the config at UserConfigPath. Settings that aren't in the file,
// or a missing file, fall back to Default.
func Parse() (Config, error) {
	path, err := homedirExpand(UserConfigPath)
	if err != nil {
		return Config{}, errors.WithContext(err, "expand config path")
	}

	config := Default()
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, errors.WithContext(err, "read file")
	}

	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return Config{}, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	if config.Version != SupportedConfigVersion {
		return Config{}, incompatibleVersionError{path, SupportedConfigVersion, config.Version}
	}

	// Do a strict unmarshal to check for any extra fields. We do a non-strict
	// unmarshal first so that we can catch version errors before erroring on
	// extra fields.
	err = yaml.UnmarshalStrict(configBytes, &config, yaml.DisallowUnknownFields)
	if err != nil {
		return Config{}, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	if config.Port <= 0 || config.Port > 65535 {
		return Config{}, errors.NewFriendlyError(
			"The port %d in %q is not a valid TCP port.", config.Port, path)
	}

	config.LocalDir, err = homedir.Expand(config.LocalDir)
	if err != nil {
		return Config{}, errors.WithContext(err, "expand local directory")
	}
	return config, nil
}
