package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/elector/internal/testing/fake"
)

func TestFileLoader_LoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets", "alice.key")

	generator := fakeGenerator{
		calls: &fake.Call{},
		data:  []byte{1, 2, 3},
	}

	loader := NewFileLoader(path)

	data, err := loader.LoadOrCreate(generator)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
	require.Equal(t, 1, generator.calls.Len())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0400), info.Mode().Perm())

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))

	// The second call reads the file.
	data, err = loader.LoadOrCreate(generator)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
	require.Equal(t, 1, generator.calls.Len())
}

func TestFileLoader_LoadOrCreate_Failures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.key")

	generator := fakeGenerator{calls: &fake.Call{}, data: []byte{1}}

	_, err := NewFileLoader(path).LoadOrCreate(fakeGenerator{calls: &fake.Call{}, err: fake.GetError()})
	require.EqualError(t, err, fake.Err("generator failed"))

	_, err = NewFileLoader(path).LoadOrCreate(fakeGenerator{calls: &fake.Call{}})
	require.EqualError(t, err, "generator returned an empty key")

	loader := NewFileLoader(path).(fileLoader)

	loader.statFn = func(string) (os.FileInfo, error) {
		return nil, fake.GetError()
	}
	_, err = loader.LoadOrCreate(generator)
	require.EqualError(t, err, fake.Err("while checking file"))

	loader.statFn = os.Stat
	loader.mkdirFn = func(string, os.FileMode) error {
		return fake.GetError()
	}
	_, err = loader.LoadOrCreate(generator)
	require.EqualError(t, err, fake.Err("while creating directory"))

	loader.mkdirFn = os.MkdirAll
	loader.writeFileFn = func(string, []byte, os.FileMode) error {
		return fake.GetError()
	}
	_, err = loader.LoadOrCreate(generator)
	require.EqualError(t, err, fake.Err("while writing file"))

	loader.writeFileFn = os.WriteFile
	loader.renameFn = func(string, string) error {
		return fake.GetError()
	}
	_, err = loader.LoadOrCreate(generator)
	require.EqualError(t, err, fake.Err("while moving file"))

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))

	loader = NewFileLoader(path).(fileLoader)
	loader.statFn = func(string) (os.FileInfo, error) {
		return nil, nil
	}
	loader.readFileFn = func(string) ([]byte, error) {
		return nil, fake.GetError()
	}
	_, err = loader.LoadOrCreate(generator)
	require.EqualError(t, err, fake.Err("failed to load file: while reading file"))
}

func TestFileLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.key")

	loader := NewFileLoader(path)

	_, err := loader.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "while reading file: ")

	require.NoError(t, os.WriteFile(path, nil, 0600))

	_, err = loader.Load()
	require.EqualError(t, err, "file '"+path+"' is empty")

	require.NoError(t, os.WriteFile(path, []byte("key"), 0600))

	data, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, []byte("key"), data)
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeGenerator struct {
	calls *fake.Call
	data  []byte
	err   error
}

func (g fakeGenerator) Generate() ([]byte, error) {
	g.calls.Add("Generate")

	return g.data, g.err
}
