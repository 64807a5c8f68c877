package cc

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader abstracts the file-directory/mmap loader the spec treats as an
// external collaborator: given a resolved path it returns the file's bytes.
// The default Registry backs it with os.ReadFile; tests and embedders can
// substitute an in-memory loader the way the teacher's InMemoryImportLoader
// does for grammar imports.
type Loader interface {
	GetContent(path string) ([]byte, error)
}

// OSLoader reads files from the real filesystem.
type OSLoader struct{}

func (OSLoader) GetContent(path string) ([]byte, error) { return os.ReadFile(path) }

// InMemoryLoader serves file content from a map, useful for tests that
// don't want to touch the filesystem.
type InMemoryLoader struct{ files map[string][]byte }

func NewInMemoryLoader() *InMemoryLoader {
	return &InMemoryLoader{files: map[string][]byte{}}
}

func (l *InMemoryLoader) Add(path string, content []byte) { l.files[path] = content }

func (l *InMemoryLoader) GetContent(path string) ([]byte, error) {
	b, ok := l.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return b, nil
}

// mappedFile is one entry of the Registry's append-only cache.
type mappedFile struct {
	path string
	data []byte
}

// Registry is the driver-owned, process-wide cache of mapped source files
// described in spec.md section 5: append-only, shared across translation
// units, never mutated except by appending a newly loaded file. It also
// implements `#pragma once` (tracked by resolved path) on top of the same
// identity it uses to dedupe loads.
type Registry struct {
	loader      Loader
	includePath []string

	byPath   map[string]*mappedFile
	order    []*mappedFile
	seenOnce map[string]bool
}

// NewRegistry builds a Registry with the default include search order from
// spec.md section 6: ".", "/usr/local/include", "/usr/include", followed by
// any caller-supplied -I directories.
func NewRegistry(loader Loader, extraIncludeDirs []string) *Registry {
	path := append([]string{".", "/usr/local/include", "/usr/include"}, extraIncludeDirs...)
	return &Registry{
		loader:      loader,
		includePath: path,
		byPath:      map[string]*mappedFile{},
		seenOnce:    map[string]bool{},
	}
}

// Load maps path into the cache if it isn't already there and returns its
// bytes plus the stable filename to attribute marks to. Existing entries
// are never reloaded or freed: a second Load of the same path returns the
// cached bytes.
func (r *Registry) Load(path string) ([]byte, string, error) {
	if mf, ok := r.byPath[path]; ok {
		return mf.data, mf.path, nil
	}
	data, err := r.loader.GetContent(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot map file %q: %w", path, err)
	}
	mf := &mappedFile{path: path, data: data}
	r.byPath[path] = mf
	r.order = append(r.order, mf)
	return mf.data, mf.path, nil
}

// Bytes returns the previously-loaded bytes for path, or nil. Used by the
// diagnostic reporter to render a source line.
func (r *Registry) Bytes(path string) []byte {
	if mf, ok := r.byPath[path]; ok {
		return mf.data
	}
	return nil
}

// ResolveQuoted implements `#include "file"`: search the including file's
// own directory first, then the include path.
func (r *Registry) ResolveQuoted(name, fromFile string) (string, error) {
	local := filepath.Join(filepath.Dir(fromFile), name)
	if r.exists(local) {
		return local, nil
	}
	return r.ResolveAngled(name)
}

// ResolveAngled implements `#include <file>`: search only the include path,
// in left-to-right order.
func (r *Registry) ResolveAngled(name string) (string, error) {
	for _, dir := range r.includePath {
		candidate := filepath.Join(dir, name)
		if r.exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("include file not found: %s", name)
}

func (r *Registry) exists(path string) bool {
	if _, ok := r.byPath[path]; ok {
		return true
	}
	if _, ok := r.loader.(*InMemoryLoader); ok {
		_, _, err := r.Load(path)
		return err == nil
	}
	_, err := os.Stat(path)
	return err == nil
}

// MarkPragmaOnce records that resolvedPath has been entered under
// `#pragma once`, and reports whether this is the first time. This is the
// same append-only, identity-keyed dedup `#ifndef` guards get for free from
// macro state, made explicit for files that use `#pragma once` instead.
func (r *Registry) MarkPragmaOnce(resolvedPath string) (first bool) {
	if r.seenOnce[resolvedPath] {
		return false
	}
	r.seenOnce[resolvedPath] = true
	return true
}
