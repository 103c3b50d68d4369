package loader

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractDocumentText pulls readable text out of a parsed page when
// readability gives up. Prefers <article>, then <main>, then <body>.
func extractDocumentText(doc *goquery.Document) string {
	doc.Find("script, style, nav, aside, footer, header, iframe, noscript, svg, form").Remove()

	var sel *goquery.Selection
	if article := doc.Find("article").First(); article.Length() > 0 {
		sel = article
	} else if main := doc.Find("main").First(); main.Length() > 0 {
		sel = main
	} else {
		sel = doc.Find("body")
	}
	return normalizeText(extractText(sel))
}

// extractText recursively extracts text from a selection, keeping block
// boundaries as blank lines
func extractText(sel *goquery.Selection) string {
	var builder strings.Builder

	sel.Contents().Each(func(i int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "#text":
			text := strings.TrimSpace(s.Text())
			if text != "" {
				builder.WriteString(text)
				builder.WriteString(" ")
			}

		case "#comment":

		case "br":
			builder.WriteString("\n")

		case "p", "div", "section", "h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote", "pre", "tr", "table":
			inner := extractText(s)
			if strings.TrimSpace(inner) != "" {
				builder.WriteString(strings.TrimSpace(inner))
				builder.WriteString("\n\n")
			}

		default:
			builder.WriteString(extractText(s))
		}
	})

	return builder.String()
}

// normalizeText trims every line and collapses runs of blank lines
func normalizeText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// documentTitle falls back through <title> and og:title
func documentTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}
