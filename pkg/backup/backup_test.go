package backup

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/squirt/pkg/client/mocks"
	"github.com/sidkik/squirt/pkg/direntry"
	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/snapshot"
)

var (
	readme = direntry.DirEntry{
		Name:      "readme",
		Type:      direntry.TypeFile,
		Size:      5,
		DateStamp: direntry.DateStamp{Days: 15000, Mins: 720, Ticks: 100},
	}
	icon = direntry.DirEntry{
		Name:      "readme.info",
		Type:      direntry.TypeFile,
		Size:      3,
		DateStamp: direntry.DateStamp{Days: 15000, Mins: 721},
	}
	subdir = direntry.DirEntry{
		Name: "docs",
		Type: direntry.TypeUserDir,
	}
)

type testEnv struct {
	localDir string
	store    snapshot.Store
}

func newTestEnv(t *testing.T) (testEnv, func()) {
	dir, err := ioutil.TempDir("", "squirt-backup")
	require.NoError(t, err)

	env := testEnv{
		localDir: filepath.Join(dir, "files"),
		store:    snapshot.NewStore(filepath.Join(dir, "snapshots")),
	}
	require.NoError(t, os.Mkdir(env.localDir, 0755))
	return env, func() { os.RemoveAll(dir) }
}

// expectSuck makes the mock client "download" `entry` by writing `size`
// bytes to the local path.
func (env testEnv) expectSuck(mockClient *mocks.Client, entry direntry.DirEntry) *mock.Call {
	localPath := filepath.Join(env.localDir, entry.Name)
	return mockClient.On("Suck", "Work:"+entry.Name, localPath, mock.Anything).
		Run(func(args mock.Arguments) {
			contents := make([]byte, entry.Size)
			if err := ioutil.WriteFile(args.String(1), contents, 0644); err != nil {
				panic(err)
			}
		}).
		Return(entry.Size, nil).
		Once()
}

func (env testEnv) engine(mockClient *mocks.Client) Engine {
	return Engine{
		Client:   mockClient,
		Store:    env.store,
		LocalDir: env.localDir,
	}
}

func TestRunIsIdempotent(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	list := direntry.List{readme, subdir, icon}

	// The first run transfers every file, and skips the directory.
	mockClient := new(mocks.Client)
	mockClient.On("Dir", "Work:").Return(list, nil)
	env.expectSuck(mockClient, readme)
	env.expectSuck(mockClient, icon)

	result, err := env.engine(mockClient).Run("Work:")
	require.NoError(t, err)
	assert.Equal(t, []string{"readme", "readme.info"}, result.Transferred)
	assert.Empty(t, result.Unchanged)
	assert.Equal(t, uint64(8), result.Bytes)
	mockClient.AssertExpectations(t)

	saved, ok, err := env.store.Read("Work:readme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, direntry.Identical(readme, saved))

	fi, err := os.Stat(filepath.Join(env.localDir, "readme"))
	require.NoError(t, err)
	assert.True(t, readme.Time().Equal(fi.ModTime()))

	// The second run transfers nothing.
	mockClient = new(mocks.Client)
	mockClient.On("Dir", "Work:").Return(list, nil)

	result, err = env.engine(mockClient).Run("Work:")
	require.NoError(t, err)
	assert.Empty(t, result.Transferred)
	assert.Equal(t, []string{"readme", "readme.info"}, result.Unchanged)
	mockClient.AssertNotCalled(t, "Suck", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunSingleFieldChange(t *testing.T) {
	grown := readme
	grown.Size = 7

	touched := readme
	touched.Ticks++

	comment := "new"
	commented := readme
	commented.Comment = &comment

	protected := readme
	protected.Prot = direntry.ProtDelete

	tests := []struct {
		name    string
		changed direntry.DirEntry
	}{
		{"Size", grown},
		{"Ticks", touched},
		{"Comment", commented},
		{"Prot", protected},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			env, cleanup := newTestEnv(t)
			defer cleanup()

			mockClient := new(mocks.Client)
			mockClient.On("Dir", "Work:").Return(direntry.List{readme, icon}, nil).Once()
			env.expectSuck(mockClient, readme)
			env.expectSuck(mockClient, icon)
			_, err := env.engine(mockClient).Run("Work:")
			require.NoError(t, err)

			mockClient.On("Dir", "Work:").Return(direntry.List{test.changed, icon}, nil).Once()
			env.expectSuck(mockClient, test.changed)
			result, err := env.engine(mockClient).Run("Work:")
			require.NoError(t, err)
			assert.Equal(t, []string{"readme"}, result.Transferred)
			assert.Equal(t, []string{"readme.info"}, result.Unchanged)
			mockClient.AssertExpectations(t)

			saved, ok, err := env.store.Read("Work:readme")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, direntry.Identical(test.changed, saved))
		})
	}
}

func TestRunTransferFailure(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	mockClient := new(mocks.Client)
	mockClient.On("Dir", "Work:").Return(direntry.List{icon, readme}, nil)
	env.expectSuck(mockClient, icon)
	mockClient.On("Suck", "Work:readme", mock.Anything, mock.Anything).
		Return(uint32(2), errors.FramingError{Op: "recv", Want: 5, Got: 2})

	result, err := env.engine(mockClient).Run("Work:")
	_, ok := errors.RootCause(err).(errors.FramingError)
	assert.True(t, ok, "unexpected error: %v", err)
	assert.Equal(t, []string{"readme.info"}, result.Transferred)

	// Only the file that was transferred completely has a snapshot.
	_, ok, err = env.store.Read("Work:readme.info")
	assert.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = env.store.Read("Work:readme")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRunDirFailure(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("Dir", "Work:").Return(nil, errors.ConnectionError{Op: "connect"})

	_, err := Engine{Client: mockClient}.Run("Work:")
	_, ok := errors.RootCause(err).(errors.ConnectionError)
	assert.True(t, ok, "unexpected error: %v", err)
}

type fakeStore map[string]direntry.DirEntry

func (store fakeStore) Read(remotePath string) (direntry.DirEntry, bool, error) {
	if remotePath == "Work:corrupt" {
		return direntry.DirEntry{}, false, snapshot.ParseError{Path: "corrupt", Field: "size"}
	}
	if remotePath == "Work:unreadable" {
		return direntry.DirEntry{}, false, errors.New("permission denied")
	}

	e, ok := store[remotePath]
	return e, ok, nil
}

func (store fakeStore) Save(entry direntry.DirEntry, remotePath, _ string) error {
	store[remotePath] = entry
	return nil
}

func TestDiff(t *testing.T) {
	corrupt := direntry.DirEntry{Name: "corrupt", Type: direntry.TypeFile}
	grown := readme
	grown.Size++

	store := fakeStore{
		"Work:readme":      readme,
		"Work:readme.info": icon,
	}

	tests := []struct {
		name         string
		list         direntry.List
		expTransfer  direntry.List
		expUnchanged direntry.List
	}{
		{
			name:         "Unchanged",
			list:         direntry.List{readme, icon},
			expUnchanged: direntry.List{readme, icon},
		},
		{
			name:         "NoSnapshot",
			list:         direntry.List{{Name: "new", Type: direntry.TypeFile}, readme},
			expTransfer:  direntry.List{{Name: "new", Type: direntry.TypeFile}},
			expUnchanged: direntry.List{readme},
		},
		{
			name:         "Changed",
			list:         direntry.List{icon, grown},
			expTransfer:  direntry.List{grown},
			expUnchanged: direntry.List{icon},
		},
		{
			name:        "CorruptSnapshot",
			list:        direntry.List{corrupt},
			expTransfer: direntry.List{corrupt},
		},
		{
			name: "DirectoriesIgnored",
			list: direntry.List{subdir},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			toTransfer, unchanged, err := Diff("Work:", test.list, store)
			assert.NoError(t, err)
			assert.Equal(t, test.expTransfer, toTransfer)
			assert.Equal(t, test.expUnchanged, unchanged)
		})
	}

	_, _, err := Diff("Work:", direntry.List{{Name: "unreadable"}}, store)
	assert.Error(t, err)
}
