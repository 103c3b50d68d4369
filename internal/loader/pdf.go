package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// pdfFragments returns one fragment per page that carries text
func pdfFragments(data []byte, source string, log zerolog.Logger) ([]Fragment, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	numPages := reader.NumPage()
	frags := make([]Fragment, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Int("page", i).Msg("failed to extract PDF page text")
			continue
		}
		text = normalizeText(text)
		if text == "" {
			continue
		}
		frags = append(frags, Fragment{
			Text: text,
			Metadata: map[string]any{
				"source":      source,
				"page":        i,
				"total_pages": numPages,
			},
		})
	}

	if len(frags) == 0 {
		return nil, fmt.Errorf("PDF with %d pages: %w", numPages, ErrEmptyContent)
	}
	return frags, nil
}

func isPDF(mediaType string, data []byte) bool {
	return mediaType == "application/pdf" || bytes.HasPrefix(data, []byte("%PDF-"))
}

func isHTML(mediaType string) bool {
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func isPlainText(mediaType string) bool {
	return mediaType == "text/plain" || mediaType == "text/markdown" || strings.HasSuffix(mediaType, "+markdown")
}
