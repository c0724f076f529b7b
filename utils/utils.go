package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var (
	ulidMutex   = sync.Mutex{}
	ulidEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func Ternary(cond bool, a, b any) any {
	if cond {
		return a
	}

	return b
}

// ArrayContains returns the first element matching the predicate
func ArrayContains[T any](set []T, match func(elem T) bool) (bool, T) {
	for _, elem := range set {
		if match(elem) {
			return true, elem
		}
	}

	return false, *new(T)
}

// ForEach stops at the first failing action
func ForEach[T any](set []T, action func(elem T) error) error {
	for _, elem := range set {
		if err := action(elem); err != nil {
			return err
		}
	}

	return nil
}

// Unmarshal serializes and deserializes any from into the object
func Unmarshal(from, object any) error {
	reformatted, err := json.Marshal(from)
	if err != nil {
		return err
	}

	return json.Unmarshal(reformatted, object)
}

// UnmarshalFile reads a JSON or YAML file into dest and optionally validates it
func UnmarshalFile(file string, dest any, validate bool) error {
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("file not found: %s", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read file[%s]: %s", file, err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return fmt.Errorf("failed to convert yaml file[%s]: %s", file, err)
		}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal file[%s]: %s", file, err)
	}

	if validate {
		return Validate(dest)
	}

	return nil
}

// ULID returns a lexically sortable unique id
func ULID() string {
	ulidMutex.Lock()
	defer ulidMutex.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

func IsValidSubcommand(available []*cobra.Command, cmd string) bool {
	for _, s := range available {
		if cmd == s.Name() || s.HasAlias(cmd) {
			return true
		}
	}

	return false
}
