package destination

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils"
)

// FileStore keeps the state as a JSON document, replaced atomically on every save
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns an empty state when the file does not exist yet
func (f *FileStore) Load() (*types.State, error) {
	state := types.NewState()
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return state, nil
	}

	if err := utils.UnmarshalFile(f.path, state, false); err != nil {
		return nil, fmt.Errorf("failed to load state: %s", err)
	}
	if state.Bookmarks == nil {
		state.Bookmarks = make(map[string]*types.StreamState)
	}

	return state, nil
}

func (f *FileStore) Save(state *types.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %s", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state folder: %s", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %s", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %s", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush state: %s", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %s", err)
	}

	return os.Rename(tmp.Name(), f.path)
}

func (f *FileStore) Close() error {
	return nil
}
