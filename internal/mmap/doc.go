// Package mmap maps graph input files read-only into memory so the edge-list
// and GraphML readers can scan them without copying through kernel buffers.
//
//	m, err := mmap.Open("edges.txt")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the mapping uses mmap(2) and madvise(2). On Windows it uses
// CreateFileMapping/MapViewOfFile and Advise is a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not touch the slice returned by Bytes after Close.
package mmap
