package responses

type Message struct {
	Type    string `json:"type"` // "error", etc
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"` // application-level logic code
}

// Application-level codes carried by error Messages
const (
	CodeBadForm = 1000 + iota
	CodeBadCSV
	CodeBadRecord
	CodeBadPDF
	CodeMergeFailed
	CodeThrottled
	CodeTooLarge
	CodeBusy
)
