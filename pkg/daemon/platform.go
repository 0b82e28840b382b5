package daemon

import (
	"io"
	"math"
	"os"
	"os/exec"

	"github.com/spf13/afero"

	"github.com/sidkik/squirt/pkg/direntry"
	"github.com/sidkik/squirt/pkg/errors"
)

// Platform is everything the daemon needs from the host it runs on. The
// protocol handlers never touch the operating system directly.
type Platform interface {
	// EnumerateDirectory starts listing the entries of `path`. It returns a
	// ResourceError if the directory can't be opened.
	EnumerateDirectory(path string) (EntryIterator, error)

	// RunCommandStreaming starts `command` and returns its combined output.
	// Closing the output waits for the command to exit.
	RunCommandStreaming(command string) (io.ReadCloser, error)

	// OpenFile opens a file for download, and returns its length.
	OpenFile(path string) (io.ReadCloser, uint32, error)

	CurrentDirectory() (string, error)

	// ChangeDirectory returns false if `path` doesn't exist, isn't a
	// directory, or couldn't be made current.
	ChangeDirectory(path string) bool
}

// EntryIterator yields the entries of a directory in batches.
type EntryIterator interface {
	// Next returns the next batch of entries. The batch may be empty even
	// though more entries remain. It returns false once the directory is
	// exhausted.
	Next() (direntry.List, bool, error)

	// Close releases the directory handle.
	Close() error
}

// enumerateBatchSize is how many entries are read from the host at a time.
const enumerateBatchSize = 32

// Mocked out for unit testing.
var (
	fs           = afero.NewOsFs()
	getwd        = os.Getwd
	chdir        = os.Chdir
	startCommand = (*exec.Cmd).Start
)

type hostPlatform struct{}

// NewHostPlatform returns the Platform for the machine the daemon runs on.
func NewHostPlatform() Platform {
	return hostPlatform{}
}

func (hostPlatform) EnumerateDirectory(path string) (EntryIterator, error) {
	dir, err := fs.Open(path)
	if err != nil {
		return nil, errors.ResourceError{Resource: path, Err: err}
	}

	info, err := dir.Stat()
	if err != nil {
		dir.Close()
		return nil, errors.ResourceError{Resource: path, Err: err}
	}

	if !info.IsDir() {
		dir.Close()
		return nil, errors.ResourceError{
			Resource: path,
			Err:      errors.New("not a directory"),
		}
	}
	return &dirIterator{dir: dir}, nil
}

type dirIterator struct {
	dir  afero.File
	done bool
}

func (it *dirIterator) Next() (direntry.List, bool, error) {
	if it.done {
		return nil, false, nil
	}

	infos, err := it.dir.Readdir(enumerateBatchSize)
	switch {
	case err == io.EOF:
		it.done = true
		if len(infos) == 0 {
			return nil, false, nil
		}
	case err != nil:
		return nil, false, errors.WithContext(err, "read directory")
	}

	var batch direntry.List
	for _, info := range infos {
		batch.Append(entryFromFileInfo(info))
	}
	return batch, true, nil
}

func (it *dirIterator) Close() error {
	return it.dir.Close()
}

func entryFromFileInfo(info os.FileInfo) direntry.DirEntry {
	e := direntry.DirEntry{
		Name:      info.Name(),
		Type:      direntry.TypeFile,
		Prot:      direntry.ProtectionFromMode(info.Mode()),
		DateStamp: direntry.DateStampFromTime(info.ModTime()),
	}

	switch {
	case info.IsDir():
		e.Type = direntry.TypeUserDir
	case info.Mode()&os.ModeSymlink != 0:
		e.Type = direntry.TypeSoftLink
	case info.Size() > math.MaxUint32:
		e.Size = math.MaxUint32
	default:
		e.Size = uint32(info.Size())
	}
	return e
}

func (hostPlatform) RunCommandStreaming(command string) (io.ReadCloser, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, errors.ResourceError{Resource: "pipe", Err: err}
	}

	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := startCommand(cmd); err != nil {
		pr.Close()
		pw.Close()
		return nil, errors.ResourceError{Resource: "process", Err: err}
	}

	// The child has its own copy of the write end. Closing ours lets the
	// reader see the end of the output once the child exits.
	pw.Close()
	return &commandOutput{ReadCloser: pr, cmd: cmd}, nil
}

type commandOutput struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (out *commandOutput) Close() error {
	readErr := out.ReadCloser.Close()
	if err := out.cmd.Wait(); err != nil {
		return errors.WithContext(err, "wait")
	}
	return readErr
}

func (hostPlatform) OpenFile(path string) (io.ReadCloser, uint32, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, 0, errors.ResourceError{Resource: path, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, errors.AttributeError{Path: path, Err: err}
	}

	switch {
	case info.IsDir():
		err = errors.New("is a directory")
	case info.Size() > math.MaxUint32:
		err = errors.New("file too large")
	}
	if err != nil {
		f.Close()
		return nil, 0, errors.ResourceError{Resource: path, Err: err}
	}
	return f, uint32(info.Size()), nil
}

func (hostPlatform) CurrentDirectory() (string, error) {
	dir, err := getwd()
	if err != nil {
		return "", errors.WithContext(err, "getwd")
	}
	return dir, nil
}

func (hostPlatform) ChangeDirectory(path string) bool {
	isDir, err := afero.IsDir(fs, path)
	if err != nil || !isDir {
		return false
	}
	return chdir(path) == nil
}
