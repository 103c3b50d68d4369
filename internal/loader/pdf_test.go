package loader

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal uncompressed PDF with one page per entry.
// An empty entry produces a page with an empty content stream.
func buildPDF(pageTexts ...string) []byte {
	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageTexts)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, text := range pageTexts {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestWebLoader_PDFPages(t *testing.T) {
	doc := buildPDF("Alpha page text", "", "Gamma page text")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(doc)
	}))
	defer srv.Close()

	frags, err := NewWebLoader(testFetchConfig(), zerolog.Nop()).Load(context.Background(), srv.URL+"/paper.pdf")
	require.NoError(t, err)
	require.Len(t, frags, 2, "blank page should be skipped")

	assert.Contains(t, frags[0].Text, "Alpha page text")
	assert.Equal(t, 1, frags[0].Metadata["page"])
	assert.Equal(t, 3, frags[0].Metadata["total_pages"])
	assert.Equal(t, srv.URL+"/paper.pdf", frags[0].Metadata["source"])

	assert.Contains(t, frags[1].Text, "Gamma page text")
	assert.Equal(t, 3, frags[1].Metadata["page"])
	assert.Equal(t, 3, frags[1].Metadata["total_pages"])
}

func TestWebLoader_PDFSniffedWithoutContentType(t *testing.T) {
	doc := buildPDF("Only page")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(doc)
	}))
	defer srv.Close()

	frags, err := NewWebLoader(testFetchConfig(), zerolog.Nop()).Load(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.Contains(t, frags[0].Text, "Only page")
}

func TestPDFFragments_AllBlank(t *testing.T) {
	_, err := pdfFragments(buildPDF("", ""), "blank.pdf", zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyContent)
}
