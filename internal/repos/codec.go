package repos

import (
	jsoniter "github.com/json-iterator/go"

	applog "storefront/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// loadList decodes the collection stored under key. A missing key or a value
// that does not parse yields an empty collection; only store errors surface.
func loadList[T any](s Store, key string) ([]T, error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		applog.Error(nil, "store.decode.fail", err, map[string]any{"key": key})
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func saveList[T any](s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.Set(key, b)
}

// loadRecord decodes a single record; ok is false when nothing usable is stored.
func loadRecord[T any](s Store, key string) (T, bool, error) {
	var out T
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return out, false, err
	}
	if !json.Valid(raw) || string(raw) == "null" {
		applog.Error(nil, "store.decode.fail", nil, map[string]any{"key": key})
		return out, false, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		applog.Error(nil, "store.decode.fail", err, map[string]any{"key": key})
		var zero T
		return zero, false, nil
	}
	return out, true, nil
}

func saveRecord[T any](s Store, key string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, b)
}
