// Package mmap provides read-only memory-mapped file access so local
// feature archives can be decoded without an extra copy through the page
// cache. On platforms without mmap support the file is read into memory.
package mmap

// Mapping is a read-only view of a file's contents.
type Mapping struct {
	data  []byte
	unmap func([]byte) error
}

// Bytes returns the mapped contents. The slice is valid until Close.
func (m *Mapping) Bytes() []byte { return m.data }

// Close releases the mapping. It is safe to call more than once.
func (m *Mapping) Close() error {
	data := m.data
	m.data = nil
	if data == nil || m.unmap == nil {
		return nil
	}
	return m.unmap(data)
}
