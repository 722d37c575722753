package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a minimal PDF with one page per entry. An empty entry
// produces a page with an empty content stream.
func buildPDF(pages ...string) []byte {
	n := len(pages)
	// Object numbers: 1 catalog, 2 pages, 3 font, then page/content pairs
	var objects []string
	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want Kind
	}{
		{"pdf magic wins over extension", "notes.txt", []byte("%PDF-1.7\n..."), KindPDF},
		{"pdf extension", "report.PDF", []byte("garbage"), KindPDF},
		{"html extension", "page.htm", []byte("hello"), KindHTML},
		{"sniffed html", "upload", []byte("<!DOCTYPE html><html><body>x</body></html>"), KindHTML},
		{"sniffed image", "scan", []byte("\x89PNG\r\n\x1a\n0000"), KindImage},
		{"plain text", "claims", []byte("Water boils at 100C."), KindText},
		{"markdown", "README.md", []byte("<p>inline html in markdown</p>"), KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.file, tt.data))
		})
	}
}

func TestExtractText_PDF(t *testing.T) {
	data := buildPDF("Company X grew revenue 40% in 2023.", "", "Founded in 1998.")

	text, err := ExtractText("annual.pdf", data)
	require.NoError(t, err)

	assert.Contains(t, text, "--- Page 1 ---\n")
	assert.Contains(t, text, "revenue 40%")
	assert.NotContains(t, text, "--- Page 2 ---", "pages without text are skipped")
	assert.Contains(t, text, "--- Page 3 ---\n")
	assert.Contains(t, text, "1998")
	assert.Less(t, strings.Index(text, "Page 1"), strings.Index(text, "Page 3"))
}

func TestExtract_PDFReportsNoSkippedPages(t *testing.T) {
	e, err := Extract("annual.pdf", buildPDF("Company X grew revenue 40% in 2023.", ""))
	require.NoError(t, err)
	assert.Equal(t, KindPDF, e.Kind)
	assert.Empty(t, e.SkippedPages, "blank pages are not unreadable")
}

func TestJoinPages_ReportsUnreadablePages(t *testing.T) {
	pages := map[int]string{1: "Revenue grew 12%.", 3: "   ", 4: "Founded in 1998."}
	read := func(n int) (string, error) {
		if n == 2 {
			return "", errors.New("page 2: malformed content stream")
		}
		return pages[n], nil
	}

	text, skipped, err := joinPages(4, read)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, skipped)
	assert.Equal(t, "--- Page 1 ---\nRevenue grew 12%.\n\n--- Page 4 ---\nFounded in 1998.", text)
}

func TestJoinPages_AllUnreadable(t *testing.T) {
	_, skipped, err := joinPages(2, func(n int) (string, error) {
		return "", errors.New("broken")
	})
	require.ErrorIs(t, err, ErrNoExtractableText)
	assert.Equal(t, []int{1, 2}, skipped)
	assert.Contains(t, err.Error(), "2 of 2 pages could not be parsed")
}

func TestExtractText_ScannedPDF(t *testing.T) {
	_, err := ExtractText("scan.pdf", buildPDF("", ""))
	require.ErrorIs(t, err, ErrNoExtractableText)
	assert.Contains(t, err.Error(), "scanned/image-based")
}

func TestExtractText_MalformedPDF(t *testing.T) {
	_, err := ExtractText("broken.pdf", []byte("%PDF-1.4\nthis is not really a pdf"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoExtractableText))
}

func TestExtractText_HTML(t *testing.T) {
	page := `<html><head><title>ignored</title><style>p{}</style></head>
<body><h1>Results</h1><p>Revenue grew   12%
in 2023.</p><script>var x = "hidden";</script><ul><li>One</li><li>Two</li></ul></body></html>`

	text, err := ExtractText("page.html", []byte(page))
	require.NoError(t, err)

	assert.Contains(t, text, "Results")
	assert.Contains(t, text, "Revenue grew 12% in 2023.")
	assert.Contains(t, text, "One\nTwo")
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "ignored")
}

func TestExtractText_Plain(t *testing.T) {
	text, err := ExtractText("claims.txt", []byte("\ufeffLine one\r\nLine two"))
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", text)
}

func TestExtractText_Empty(t *testing.T) {
	for name, data := range map[string][]byte{
		"blank.txt":  []byte("  \n\t"),
		"empty.html": []byte("<html><body><script>only()</script></body></html>"),
		"photo.png":  []byte("\x89PNG\r\n\x1a\n0000"),
	} {
		_, err := ExtractText(name, data)
		assert.ErrorIs(t, err, ErrNoExtractableText, name)
	}
}

func TestInspect(t *testing.T) {
	info, err := Inspect("doc.pdf", buildPDF("Hello world", "Second"))
	require.NoError(t, err)
	assert.Equal(t, Info{Kind: KindPDF, Pages: 2, HasText: true}, info)

	info, err = Inspect("scan.pdf", buildPDF("", "Second"))
	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
	assert.False(t, info.HasText)

	info, err = Inspect("notes.txt", []byte("text"))
	require.NoError(t, err)
	assert.Equal(t, Info{Kind: KindText, Pages: 1, HasText: true}, info)
}
