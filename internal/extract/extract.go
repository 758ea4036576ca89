// Package extract pulls best-effort plain text out of web pages and PDF
// files, and picks a representative image for a page. It holds no state;
// every call stands alone.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// ErrNoContent means the source was readable but yielded no usable text.
var ErrNoContent = errors.New("no content found")

const (
	fetchTimeout = 15 * time.Second
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

	// Elements with at most this many words are treated as navigation
	// noise rather than content.
	minContentWords = 5

	// Declared dimensions below this are icons, not content images.
	minImageSize = 150
)

// noiseSelectors are removed from the document before text extraction.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"header", "footer", "form", "img", "nav", "aside",
}

var client = &http.Client{Timeout: fetchTimeout}

// FromPDF reads every page of a PDF and concatenates the per-page text with
// blank lines. A PDF with no extractable text returns ErrNoContent.
func FromPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip pages that fail to extract
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("pdf %s: %w", path, ErrNoContent)
	}
	return text, nil
}

// FromURL fetches a page and returns its readable text: the content of
// paragraph-like elements with more than minContentWords words, in document
// order.
func FromURL(ctx context.Context, pageURL string) (string, error) {
	html, err := fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return textFromHTML(html)
}

// ImageFromURL returns an absolute URL for the page's most representative
// image, or "" when no candidate qualifies. Fetch and parse failures also
// yield "": an image is decoration, never worth failing the request over.
func ImageFromURL(ctx context.Context, pageURL string) string {
	html, err := fetch(ctx, pageURL)
	if err != nil {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return imageFromHTML(html, base)
}

func fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", pageURL, err)
	}
	return string(body), nil
}

func textFromHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	var texts []string
	doc.Find("p, div, article, span").Each(func(_ int, s *goquery.Selection) {
		txt := strings.TrimSpace(s.Text())
		if txt != "" && len(strings.Fields(txt)) > minContentWords {
			texts = append(texts, txt)
		}
	})

	content := strings.Join(texts, "\n")
	if strings.TrimSpace(content) == "" {
		return "", ErrNoContent
	}
	return content, nil
}

// imageFromHTML applies the selection policy: the og:image meta tag wins;
// otherwise the first <img> in document order that is not an inline data
// URI, declares at least minImageSize in both dimensions, and whose path
// avoids logo/banner/header naming.
func imageFromHTML(html string, base *url.URL) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if og, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && og != "" {
		return resolve(base, og)
	}

	var candidate string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" || strings.HasPrefix(src, "data:image") {
			return true
		}
		if attrInt(s, "width") < minImageSize || attrInt(s, "height") < minImageSize {
			return true
		}
		lower := strings.ToLower(src)
		if strings.Contains(lower, "logo") || strings.Contains(lower, "banner") || strings.Contains(lower, "header") {
			return true
		}
		candidate = resolve(base, src)
		return false
	})
	return candidate
}

func attrInt(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}

func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
