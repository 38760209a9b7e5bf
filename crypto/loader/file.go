package loader

import (
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

const (
	keyPerm = 0400
	dirPerm = 0700
)

// fileLoader stores the key in a file readable only by the current user. A new
// key is written to a temporary file that is renamed once complete, so that an
// interrupted creation never leaves a truncated key behind.
//
// - implements loader.Loader
type fileLoader struct {
	path string

	statFn      func(path string) (os.FileInfo, error)
	mkdirFn     func(path string, perm os.FileMode) error
	writeFileFn func(path string, data []byte, perm os.FileMode) error
	renameFn    func(from, to string) error
	readFileFn  func(path string) ([]byte, error)
}

// NewFileLoader creates a new loader for the key file at the path. Missing
// parent directories are created with the key.
func NewFileLoader(path string) Loader {
	return fileLoader{
		path:        path,
		statFn:      os.Stat,
		mkdirFn:     os.MkdirAll,
		writeFileFn: os.WriteFile,
		renameFn:    os.Rename,
		readFileFn:  os.ReadFile,
	}
}

// LoadOrCreate implements loader.Loader. It either loads the key from the file
// if it exists, or it generates a new one and stores it in the file.
func (l fileLoader) LoadOrCreate(g Generator) ([]byte, error) {
	_, err := l.statFn(l.path)
	if err == nil {
		data, err := l.Load()
		if err != nil {
			return nil, xerrors.Errorf("failed to load file: %v", err)
		}

		return data, nil
	}

	if !os.IsNotExist(err) {
		return nil, xerrors.Errorf("while checking file: %v", err)
	}

	data, err := g.Generate()
	if err != nil {
		return nil, xerrors.Errorf("generator failed: %v", err)
	}

	if len(data) == 0 {
		return nil, xerrors.New("generator returned an empty key")
	}

	err = l.mkdirFn(filepath.Dir(l.path), dirPerm)
	if err != nil {
		return nil, xerrors.Errorf("while creating directory: %v", err)
	}

	tmp := l.path + ".tmp"

	err = l.writeFileFn(tmp, data, keyPerm)
	if err != nil {
		return nil, xerrors.Errorf("while writing file: %v", err)
	}

	err = l.renameFn(tmp, l.path)
	if err != nil {
		os.Remove(tmp)
		return nil, xerrors.Errorf("while moving file: %v", err)
	}

	return data, nil
}

// Load implements loader.Loader. It loads the key from the file if it exists,
// otherwise it returns an error. An empty file is not a key.
func (l fileLoader) Load() ([]byte, error) {
	data, err := l.readFileFn(l.path)
	if err != nil {
		return nil, xerrors.Errorf("while reading file: %v", err)
	}

	if len(data) == 0 {
		return nil, xerrors.Errorf("file '%s' is empty", l.path)
	}

	return data, nil
}
