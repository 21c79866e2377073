package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	filePerms  = 0o644
	jsonIndent = "    "
)

// entry is one key/value pair of a JSON object whose key order matters.
type entry struct {
	key   string
	value json.RawMessage
}

// encodeRecord writes entries as a single indented JSON object, keeping their order.
func encodeRecord(entries []entry) ([]byte, error) {
	var compact bytes.Buffer

	compact.WriteByte('{')

	for i, e := range entries {
		if i > 0 {
			compact.WriteByte(',')
		}

		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, fmt.Errorf("error encoding key %s: %w", e.key, err)
		}

		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(e.value)
	}

	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", jsonIndent); err != nil {
		return nil, fmt.Errorf("error indenting record: %w", err)
	}

	out.WriteByte('\n')

	return out.Bytes(), nil
}

// decodeRecord reads a JSON object into entries in file order. A repeated key
// replaces the earlier value but keeps the earlier position.
func decodeRecord(data []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("error reading record: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, found %v", tok)
	}

	entries := []entry{}
	seen := map[string]int{}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("error reading key: %w", err)
		}

		key, _ := tok.(string)

		var value json.RawMessage
		if err = dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("error reading value for %s: %w", key, err)
		}

		if i, ok := seen[key]; ok {
			entries[i].value = value

			continue
		}

		seen[key] = len(entries)
		entries = append(entries, entry{key: key, value: value})
	}

	if _, err = dec.Token(); err != nil {
		return nil, fmt.Errorf("error closing record: %w", err)
	}

	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after record")
	}

	return entries, nil
}

// writeFileAtomic replaces path with data through a temp file in the same directory.
// An existing file keeps its permissions; a new one gets filePerms.
func writeFileAtomic(path string, data []byte) error {
	perms := os.FileMode(filePerms)

	info, err := os.Stat(path)
	if err == nil {
		perms = info.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return err
	}

	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return err
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)

		return err
	}

	if err = os.Chmod(tmpName, perms); err != nil {
		os.Remove(tmpName)

		return err
	}

	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return err
	}

	return nil
}
