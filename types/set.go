package types

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Set is an insertion ordered set; Array() returns elements in the order they were first inserted
type Set[T comparable] struct {
	hash  map[T]struct{}
	items []T
}

func NewSet[T comparable](values ...T) *Set[T] {
	set := &Set[T]{
		hash:  make(map[T]struct{}),
		items: []T{},
	}
	set.Insert(values...)

	return set
}

func (st *Set[T]) Insert(values ...T) {
	if st.hash == nil {
		st.hash = make(map[T]struct{})
	}

	for _, value := range values {
		if _, found := st.hash[value]; found {
			continue
		}
		st.hash[value] = struct{}{}
		st.items = append(st.items, value)
	}
}

func (st *Set[T]) Exists(value T) bool {
	if st == nil {
		return false
	}
	_, found := st.hash[value]
	return found
}

func (st *Set[T]) Remove(value T) {
	if !st.Exists(value) {
		return
	}

	delete(st.hash, value)
	for idx, item := range st.items {
		if item == value {
			st.items = append(st.items[:idx], st.items[idx+1:]...)
			break
		}
	}
}

func (st *Set[T]) Len() int {
	if st == nil {
		return 0
	}
	return len(st.items)
}

func (st *Set[T]) Array() []T {
	if st == nil {
		return nil
	}
	out := make([]T, len(st.items))
	copy(out, st.items)
	return out
}

func (st *Set[T]) String() string {
	return fmt.Sprintf("%v", st.Array())
}

func (st *Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(st.Array())
}

// UnmarshalJSON accepts both an array and a single scalar value, the
// latter being common for JSON schema "type" keywords
func (st *Set[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		var single T
		if serr := json.Unmarshal(data, &single); serr != nil {
			return err
		}
		values = []T{single}
	}

	*st = *NewSet(values...)
	return nil
}
