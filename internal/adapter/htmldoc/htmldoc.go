// Package htmldoc turns rendered HTML into the markdown, links and metadata
// that make up a fetch result.
package htmldoc

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/pkg/utils"
)

// Page is the parsed form of one HTML document.
type Page struct {
	Markdown string
	// HTML is the document with scripts and styles removed.
	HTML     string
	Links    []string
	Metadata entity.PageMetadata
}

// Parse parses htmlContent loaded from pageURL. Relative links and image
// references are resolved against pageURL.
func Parse(pageURL, htmlContent string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "parse page url %q", pageURL)
	}

	page := &Page{
		Metadata: extractMetadata(doc, base),
		Links:    extractLinks(doc, base),
	}
	page.Metadata.SourceURL = pageURL

	doc.Find("script, style, noscript").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	page.Markdown = toMarkdown(doc)
	if cleaned, err := goquery.OuterHtml(doc.Find("html").First()); err == nil {
		page.HTML = cleaned
	}
	return page, nil
}

// Apply copies the parsed parts of p into res.
func (p *Page) Apply(res *entity.FetchResult) {
	status := res.Metadata.StatusCode
	res.Markdown = p.Markdown
	res.HTML = p.HTML
	res.Links = p.Links
	res.Metadata = p.Metadata
	res.Metadata.StatusCode = status
}

func extractMetadata(doc *goquery.Document, base *url.URL) entity.PageMetadata {
	meta := entity.PageMetadata{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		content, _ := s.Attr("content")
		key := name
		if property != "" {
			key = property
		}
		content = strings.TrimSpace(content)
		if key == "" || content == "" {
			return
		}
		switch strings.ToLower(key) {
		case "description":
			if meta.Description == "" {
				meta.Description = content
			}
		case "og:description":
			meta.Description = content
		case "og:title":
			meta.OgTitle = content
		case "og:image", "og:image:url", "og:image:secure_url":
			if meta.OgImage == "" {
				meta.OgImage = absolute(base, content)
			}
		}
	})
	return meta
}

func extractLinks(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !utils.IsFetchable(href) {
			return
		}
		abs := absolute(base, href)
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})
	return links
}

func absolute(base *url.URL, ref string) string {
	abs, err := utils.ToAbsoluteURL(base, ref)
	if err != nil {
		return ref
	}
	return abs
}

// toMarkdown renders headings, paragraphs and list items in document order.
func toMarkdown(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(i int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if text == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		tag := goquery.NodeName(s)
		switch {
		case len(tag) == 2 && tag[0] == 'h':
			b.WriteString(strings.Repeat("#", int(tag[1]-'0')))
			b.WriteByte(' ')
		case tag == "li":
			b.WriteString("- ")
		}
		b.WriteString(text)
	})
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
