package intake

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// readFile reads path, mapping a missing file to ErrMissing.
func readFile(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrMalformed, path, err)
	}
	return data, nil
}

// readJSONObject reads path and returns its top-level JSON object.
func readJSONObject(fsys afero.Fs, path string) (gjson.Result, error) {
	data, err := readFile(fsys, path)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: %s: invalid JSON", ErrMalformed, path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: %s: top level is not an object", ErrMalformed, path)
	}
	return root, nil
}

// Exists reports whether path exists as a regular file.
func Exists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}
