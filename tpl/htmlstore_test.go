package tpl

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadFSAndRender(t *testing.T) {
	fsys := fstest.MapFS{
		"html/upload.gohtml":       {Data: []byte(`<h1>{{.Title}}</h1>`)},
		"html/parts/footer.gohtml": {Data: []byte(`<footer>{{.}}</footer>`)},
		"html/.hidden/skip.gohtml": {Data: []byte(`{{`)},
		"html/readme.txt":          {Data: []byte(`not a template`)},
	}
	s := NewHTMLTemplateStore()
	if err := s.LoadFS(fsys, "html"); err != nil {
		t.Fatal(err)
	}
	if len(s.Base) != 2 {
		t.Fatalf("loaded %d templates, want 2", len(s.Base))
	}

	var out strings.Builder
	if err := s.Render(&out, "upload", map[string]string{"Title": "<PDF>"}); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "<h1>&lt;PDF&gt;</h1>" {
		t.Errorf("render = %q", got)
	}
	if _, ok := s.Get("parts/footer"); !ok {
		t.Error("nested template key missing")
	}
	if err := s.Render(&out, "missing", nil); err == nil {
		t.Error("expected an error for a missing template")
	}
}

func TestLoadFSOverride(t *testing.T) {
	s := NewHTMLTemplateStore()
	if err := s.LoadFS(fstest.MapFS{"a/upload.gohtml": {Data: []byte("default")}}, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadFS(fstest.MapFS{"upload.gohtml": {Data: []byte("custom")}}, "."); err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := s.Render(&out, "upload", nil); err != nil {
		t.Fatal(err)
	}
	if out.String() != "custom" {
		t.Errorf("render = %q, want custom", out.String())
	}
}

func TestLoadFSParseError(t *testing.T) {
	s := NewHTMLTemplateStore()
	err := s.LoadFS(fstest.MapFS{"bad.gohtml": {Data: []byte("{{.")}}, ".")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if len(s.Base) != 0 {
		t.Error("a failed load must not change the store")
	}
}
