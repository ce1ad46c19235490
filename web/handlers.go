package web

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/daddykotex/pdf-edit-bulk/journal"
	"github.com/daddykotex/pdf-edit-bulk/pdfs"
	"github.com/daddykotex/pdf-edit-bulk/requests"
	"github.com/daddykotex/pdf-edit-bulk/responses"
	"github.com/daddykotex/pdf-edit-bulk/stamp"
	"github.com/daddykotex/pdf-edit-bulk/tabular"
	"github.com/daddykotex/pdf-edit-bulk/tpl"
)

const HeaderInputDigest = "X-Input-Digest"

// Handlers serves the upload form and the merge API
type Handlers struct {
	AppName          string
	Engine           *stamp.Engine
	FieldNames       stamp.FieldNames
	DefaultDelimiter string
	MaxUploadBytes   int64
	Journal          journal.Journal
	Templates        *tpl.HTMLTemplateStore

	// TrustProxyHeaders takes the client address from X-Forwarded-For
	TrustProxyHeaders bool
}

type formPage struct {
	AppName     string
	Action      string
	Delimiters  []string
	Default     string
	MaxUploadMB int64
}

// Form renders the upload page
func (h *Handlers) Form(w http.ResponseWriter, r *http.Request) {
	def := h.DefaultDelimiter
	if def == "" {
		def = ";"
	}
	page := formPage{
		AppName:     h.AppName,
		Action:      "/api/form",
		Delimiters:  []string{";", ","},
		Default:     def,
		MaxUploadMB: h.MaxUploadBytes >> 20,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Templates.Render(w, templateUpload, page); err != nil {
		log.Printf("[ERROR][WEB] render form: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// merged is the outcome of one merge request
type merged struct {
	upload  *requests.Upload
	opts    stamp.MergeOptions
	doc     *pdfs.Document
	summary *stamp.Summary
	digest  string
}

// Merge stamps the uploaded PDF and returns it as <project>.pdf
func (h *Handlers) Merge(w http.ResponseWriter, r *http.Request) {
	m, err := h.run(r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := m.doc.ProduceBytes()
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", errWritePDF, err))
		return
	}
	h.record(r, m)

	w.Header().Set(HeaderInputDigest, m.digest)
	responses.WritePDFBytesWithFilename(w, m.opts.Project+".pdf", out)
}

// Preview runs the merge and returns its Summary as JSON, without the PDF
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	m, err := h.run(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set(HeaderInputDigest, m.digest)
	responses.EncodeWriteJSON(w, http.StatusOK, m.summary)
}

// Merges lists recent journal entries, newest first
func (h *Handlers) Merges(w http.ResponseWriter, r *http.Request) {
	limit := journal.DefaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			responses.WriteErrorJSON(w, http.StatusBadRequest, responses.CodeBadForm, "limit must be an integer")
			return
		}
		limit = n
	}
	entries, err := h.journal().Recent(r.Context(), journal.ClampLimit(limit))
	if err != nil {
		log.Printf("[ERROR][WEB] journal: %v", err)
		responses.WriteSimpleErrorJSON(w, http.StatusInternalServerError, "journal unavailable")
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, entries)
}

func (h *Handlers) run(r *http.Request) (*merged, error) {
	u, err := requests.ParseUpload(r, h.MaxUploadBytes)
	if err != nil {
		return nil, err
	}
	if u.Delimiter == "" {
		u.Delimiter = h.DefaultDelimiter
	}
	delim, err := tabular.ParseDelimiter(u.Delimiter)
	if err != nil {
		return nil, err
	}
	rows, err := tabular.ReadAll(bytes.NewReader(u.CSV), tabular.Options{Delimiter: delim})
	if err != nil {
		return nil, err
	}
	table, err := stamp.BuildTable(rows, h.FieldNames)
	if err != nil {
		return nil, err
	}
	doc, err := pdfs.OpenBytes(u.PDF)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadPDF, err)
	}

	opts := stamp.MergeOptions{Project: u.Project, Prefix: u.Prefix}
	sum, err := h.engine().Merge(r.Context(), doc, table, opts)
	if err != nil {
		return nil, err
	}
	logMerge(requests.ClientIP(r), opts, sum)
	return &merged{
		upload:  u,
		opts:    opts,
		doc:     doc,
		summary: sum,
		digest:  journal.Digest(u.PDF, u.CSV),
	}, nil
}

func (h *Handlers) record(r *http.Request, m *merged) {
	e := journal.NewEntry(journal.SourceWeb, requests.ClientIP(r), m.digest, m.opts, m.summary)
	// the response does not depend on the journal
	ctx := context.WithoutCancel(r.Context())
	if err := h.journal().Record(ctx, e); err != nil {
		log.Printf("[ERROR][WEB] journal record: %v", err)
	}
}

func (h *Handlers) engine() *stamp.Engine {
	if h.Engine == nil {
		return stamp.NewEngine()
	}
	return h.Engine
}

func (h *Handlers) journal() journal.Journal {
	if h.Journal == nil {
		return journal.Nop{}
	}
	return h.Journal
}

func logMerge(ip string, opts stamp.MergeOptions, sum *stamp.Summary) {
	log.Printf("[INFO][MERGE] %s project=%q pages=%d matched=%d missing=%d",
		ip, opts.Project, sum.Pages, sum.Matched, sum.Missing)
}
