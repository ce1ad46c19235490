package tpl

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"path"
	"strings"
	"sync"
	"unicode/utf8"
)

const FileSuffix = ".gohtml"

// HTMLTemplateStore keeps one template per .gohtml file, keyed by the
// slash-separated path below the root without the suffix.
type HTMLTemplateStore struct {
	mu   sync.RWMutex
	Base map[string]*template.Template
}

func NewHTMLTemplateStore() *HTMLTemplateStore {
	return &HTMLTemplateStore{
		Base: make(map[string]*template.Template),
	}
}

// LoadFS parses every template under root in fsys.
// A key loaded earlier is replaced, so the last source loaded wins.
func (s *HTMLTemplateStore) LoadFS(fsys fs.FS, root string) error {
	loaded := map[string]*template.Template{}
	err := fs.WalkDir( // Pre-order Depth-first Traversal
		fsys,
		root,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			// Skip Hidden Files & Hidden Directories
			if strings.HasPrefix(name, ".") && p != root {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(p, FileSuffix) {
				return nil
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			if !utf8.Valid(data) {
				return fmt.Errorf("file %s is not valid UTF-8", p)
			}
			rel := strings.TrimPrefix(p, path.Clean(root)+"/")
			if root == "." {
				rel = p
			}
			key := strings.TrimSuffix(rel, FileSuffix)
			t, err := template.New(key).Parse(string(data))
			if err != nil {
				return fmt.Errorf("parse error in %s: %w", p, err)
			}
			loaded[key] = t
			return nil
		},
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for k, t := range loaded {
		s.Base[k] = t
	}
	s.mu.Unlock()
	log.Printf("[INFO][TEMPLATE] Loaded %d templates from %s", len(loaded), root)
	return nil
}

func (s *HTMLTemplateStore) Get(key string) (*template.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.Base[key]
	return t, ok
}

// Render executes the template into a buffer first so that a failing
// template does not leave a half-written page.
func (s *HTMLTemplateStore) Render(w io.Writer, key string, data any) error {
	t, ok := s.Get(key)
	if !ok {
		return fmt.Errorf("template %q not found", key)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %q: %w", key, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
