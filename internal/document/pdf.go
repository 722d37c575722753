package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// openPDF parses data, converting parser panics on malformed input into errors
func openPDF(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return r, nil
}

func pageText(r *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: %v", n, rec)
		}
	}()

	p := r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

// extractPDF joins the text of every page, each under a page marker.
// Blank pages are dropped; pages that fail to parse are returned as skipped.
func extractPDF(data []byte) (string, []int, error) {
	r, err := openPDF(data)
	if err != nil {
		return "", nil, err
	}
	return joinPages(r.NumPage(), func(n int) (string, error) { return pageText(r, n) })
}

func joinPages(numPages int, read func(n int) (string, error)) (string, []int, error) {
	var pages []string
	var skipped []int
	for i := 1; i <= numPages; i++ {
		text, err := read(i)
		if err != nil {
			skipped = append(skipped, i)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, pageMarker(i)+"\n"+text)
	}

	if len(pages) == 0 {
		if len(skipped) > 0 {
			return "", skipped, fmt.Errorf("%w (%d of %d pages could not be parsed)", ErrNoExtractableText, len(skipped), numPages)
		}
		return "", nil, ErrNoExtractableText
	}
	return strings.Join(pages, "\n\n"), skipped, nil
}

func inspectPDF(data []byte) (Info, error) {
	r, err := openPDF(data)
	if err != nil {
		return Info{}, err
	}

	info := Info{Pages: r.NumPage()}
	if info.Pages > 0 {
		text, err := pageText(r, 1)
		info.HasText = err == nil && strings.TrimSpace(text) != ""
	}
	return info, nil
}
