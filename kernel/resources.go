package kernel

import "sync"

// NOFILE is the size of a process's open-file table (spec.md §3).
const NOFILE = 16

// OpenFile is a reference-counted open-file handle. The real file layer
// (§6 filedup/fileclose) lives outside this subsystem; this is the minimal
// shape the process table needs to exercise fork's dup-on-fork and exit's
// close-everything behaviour (spec.md §4.6, §4.7).
type OpenFile struct {
	mu   sync.Mutex
	refs int
	Name string
}

// NewOpenFile returns a fresh handle with one reference.
func NewOpenFile(name string) *OpenFile {
	return &OpenFile{refs: 1, Name: name}
}

// Dup increments the reference count and returns the same handle, mirroring
// filedup.
func (f *OpenFile) Dup() *OpenFile {
	f.mu.Lock()
	f.refs++
	f.mu.Unlock()
	return f
}

// Close decrements the reference count, mirroring fileclose. The caller
// should drop its reference to f after calling Close.
func (f *OpenFile) Close() {
	f.mu.Lock()
	f.refs--
	f.mu.Unlock()
}

// Refs reports the current reference count, for tests that check
// spec.md invariant 5 ("every open file has ref-count >= 2 between fork and
// child-exit").
func (f *OpenFile) Refs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs
}

// Inode is a reference-counted cwd handle standing in for the external
// file-system's inode cache (§6 idup/iput, §3 "cwd is a reference-counted
// inode handle").
type Inode struct {
	mu   sync.Mutex
	refs int
	Path string
}

// NewInode returns a fresh handle with one reference, mirroring namei.
func NewInode(path string) *Inode {
	return &Inode{refs: 1, Path: path}
}

// Dup increments the reference count, mirroring idup.
func (i *Inode) Dup() *Inode {
	i.mu.Lock()
	i.refs++
	i.mu.Unlock()
	return i
}

// Close decrements the reference count, mirroring iput.
func (i *Inode) Close() {
	i.mu.Lock()
	i.refs--
	i.mu.Unlock()
}

// Refs reports the current reference count.
func (i *Inode) Refs() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.refs
}
