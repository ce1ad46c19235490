package responses

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteSimpleErrorJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSimpleErrorJSON(rec, http.StatusBadRequest, "bad form")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var got Message
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Message{Type: "error", Message: "bad form"}, got); d != "" {
		t.Errorf("message mismatch (-want +got):\n%s", d)
	}
}

func TestWritePDF(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Input-Digest", "abc")
	WritePDFBytesWithFilename(rec, "PRJ.pdf", []byte("%PDF-1.7"))

	want := map[string]string{
		"Content-Type":        "application/pdf",
		"Content-Disposition": `attachment; filename=PRJ.pdf`,
		"X-Input-Digest":      "abc",
		"Content-Length":      "8",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if rec.Body.String() != "%PDF-1.7" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestContentDisposition(t *testing.T) {
	tests := map[string]string{
		"PRJ.pdf":        `attachment; filename=PRJ.pdf`,
		"my project.pdf": `attachment; filename="my project.pdf"`,
		"projet-é.pdf":   `attachment; filename*=utf-8''projet-%C3%A9.pdf`,
	}
	for in, want := range tests {
		if got := ContentDisposition("attachment", in); got != want {
			t.Errorf("ContentDisposition(%q) = %q, want %q", in, got, want)
		}
	}
}
