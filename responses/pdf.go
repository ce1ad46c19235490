package responses

import (
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"
)

// WritePDFBytesWithFilename sends a finished PDF as a download.
// Extra headers must be set on w beforehand.
func WritePDFBytesWithFilename(w http.ResponseWriter, filename string, PDFBytes []byte) {
	w.Header().Set("Content-Length", strconv.Itoa(len(PDFBytes)))
	WritePDFResponseHeaders(w, filename, true)
	if _, err := w.Write(PDFBytes); err != nil {
		log.Printf("[ERROR] writing PDF to response: %v", err)
	}
}

// WritePDFResponseHeaders write HTTP response headers for PDF response. i.e. headers are frozen
func WritePDFResponseHeaders(w http.ResponseWriter, filename string, attachment bool) {
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", ContentDisposition(disposition, filename))
	w.WriteHeader(http.StatusOK) // Response Header Sent & Frozen
}

// ContentDisposition formats the header, with an RFC 2231 filename* for
// non-ASCII names.
func ContentDisposition(disposition, filename string) string {
	if v := mime.FormatMediaType(disposition, map[string]string{"filename": filename}); v != "" {
		return v
	}
	return fmt.Sprintf("%s; filename=%q", disposition, filename)
}
