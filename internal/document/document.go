// Package document turns uploaded files into plain text for claim extraction.
package document

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrNoExtractableText means the document has no text layer
var ErrNoExtractableText = errors.New("no text could be extracted; the document may be scanned/image-based")

// Kind is the detected document format
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindHTML  Kind = "html"
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Detect classifies data by magic bytes, falling back to the file extension
func Detect(name string, data []byte) Kind {
	if isPDF(data) {
		return KindPDF
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".html", ".htm", ".xhtml":
		return KindHTML
	case ".txt", ".md", ".markdown", ".text":
		return KindText
	}

	ct := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(ct, "text/html"):
		return KindHTML
	case strings.HasPrefix(ct, "image/"):
		return KindImage
	default:
		return KindText
	}
}

// Extraction is the text of a document plus the pages that failed to parse
type Extraction struct {
	Kind Kind
	Text string
	// SkippedPages lists 1-based PDF pages whose text could not be read.
	// Blank pages are not listed.
	SkippedPages []int
}

// Extract returns the plain text of a document and any unreadable pages
func Extract(name string, data []byte) (Extraction, error) {
	kind := Detect(name, data)
	out := Extraction{Kind: kind}

	var err error
	switch kind {
	case KindPDF:
		out.Text, out.SkippedPages, err = extractPDF(data)
	case KindHTML:
		out.Text, err = extractHTML(data)
	case KindImage:
		return out, ErrNoExtractableText
	default:
		out.Text = extractPlain(data)
	}
	if err != nil {
		return out, err
	}

	if strings.TrimSpace(out.Text) == "" {
		return out, ErrNoExtractableText
	}
	return out, nil
}

// ExtractText returns the plain text of a document
func ExtractText(name string, data []byte) (string, error) {
	e, err := Extract(name, data)
	if err != nil {
		return "", err
	}
	return e.Text, nil
}

// Info summarizes a document before extraction
type Info struct {
	Kind    Kind `json:"kind"`
	Pages   int  `json:"pages"`
	HasText bool `json:"has_text"` // First page carries a text layer
}

// Inspect reports the page count and whether the first page has text
func Inspect(name string, data []byte) (Info, error) {
	kind := Detect(name, data)
	switch kind {
	case KindPDF:
		info, err := inspectPDF(data)
		info.Kind = kind
		return info, err
	case KindImage:
		return Info{Kind: kind, Pages: 1}, nil
	default:
		text, err := ExtractText(name, data)
		if err != nil && !errors.Is(err, ErrNoExtractableText) {
			return Info{Kind: kind}, err
		}
		return Info{Kind: kind, Pages: 1, HasText: text != ""}, nil
	}
}

func isPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

func extractPlain(data []byte) string {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	text = strings.TrimPrefix(text, "\ufeff")
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func pageMarker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}
