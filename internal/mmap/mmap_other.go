//go:build !unix

package mmap

import "os"

// Open reads the file at path into memory. Platforms without mmap get
// copy-in semantics behind the same API.
func Open(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data}, nil
}
