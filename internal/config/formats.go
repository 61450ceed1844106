package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/fluxfield/internal/ctxlog"
	"github.com/vk/fluxfield/internal/fsutil"
)

// Document is one generic tree read from a file.
type Document struct {
	Path string
	// Index is the position of the document within a multi-document file.
	Index int
	Tree  any
}

// Formats maps file extensions to loaders and output names to emitters.
type Formats struct {
	loaders  map[string]Loader
	emitters map[string]Emitter
}

// NewFormats creates an empty registry.
func NewFormats() *Formats {
	return &Formats{
		loaders:  make(map[string]Loader),
		emitters: make(map[string]Emitter),
	}
}

// RegisterLoader registers l for every extension it reports. A later
// registration for the same extension replaces the earlier one.
func (f *Formats) RegisterLoader(l Loader) {
	for _, ext := range l.Extensions() {
		f.loaders[strings.ToLower(ext)] = l
	}
}

// RegisterEmitter registers e under name.
func (f *Formats) RegisterEmitter(name string, e Emitter) {
	f.emitters[name] = e
}

// LoaderFor selects the loader for path by its extension.
func (f *Formats) LoaderFor(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := f.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("no loader for %q files (supported: %s)", ext, strings.Join(f.Extensions(), ", "))
	}
	return l, nil
}

// Emitter returns the emitter registered under name.
func (f *Formats) Emitter(name string) (Emitter, error) {
	e, ok := f.emitters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (supported: %s)", name, strings.Join(f.EmitterNames(), ", "))
	}
	return e, nil
}

// Extensions lists every registered extension, sorted.
func (f *Formats) Extensions() []string {
	out := make([]string, 0, len(f.loaders))
	for ext := range f.loaders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// EmitterNames lists every registered emitter name, sorted.
func (f *Formats) EmitterNames() []string {
	out := make([]string, 0, len(f.emitters))
	for name := range f.emitters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadPath loads a single file, or every file with a registered extension
// beneath a directory, in lexical path order.
func (f *Formats) LoadPath(ctx context.Context, path string) ([]Document, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}

	files := []string{path}
	if info.IsDir() {
		if files, err = fsutil.FindFilesByExtension(path, f.Extensions()...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		logger.Debug("Discovered spec files.", "root", path, "count", len(files))
		if len(files) == 0 {
			return nil, fmt.Errorf("no spec files (%s) found under %s", strings.Join(f.Extensions(), ", "), path)
		}
	}

	var docs []Document
	for _, file := range files {
		l, err := f.LoaderFor(file)
		if err != nil {
			return nil, err
		}
		trees, err := l.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		for i, t := range trees {
			docs = append(docs, Document{Path: file, Index: i, Tree: t})
		}
	}
	return docs, nil
}
