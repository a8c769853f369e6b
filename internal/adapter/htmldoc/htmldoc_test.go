package htmldoc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/user/brand-ingest/internal/entity"
	"github.com/user/brand-ingest/internal/repository"
)

const brandHTML = `<!doctype html>
<html>
<head>
  <title> Acme Furniture </title>
  <meta name="description" content="Chairs and tables">
  <meta property="og:title" content="Acme">
  <meta property="og:image" content="/media/og/acme.jpg">
  <style>body { color: red }</style>
</head>
<body>
  <h1>Acme</h1>
  <p>Welcome   to
     Acme.</p>
  <h2>About us</h2>
  <ul><li>Chairs</li><li>Tables</li></ul>
  <a href="/downloads/catalog.pdf">Catalog</a>
  <a href="https://acme.example/">Home</a>
  <a href="/downloads/catalog.pdf">Catalog again</a>
  <a href="mailto:info@acme.example">Mail</a>
  <a href="#top">Top</a>
  <script>window.__DATA__ = {"phone":"+1 555"}</script>
</body>
</html>`

func TestParse(t *testing.T) {
	page, err := Parse("https://example.com/b/acme/1", brandHTML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	wantMeta := entity.PageMetadata{
		Title:       "Acme Furniture",
		Description: "Chairs and tables",
		OgTitle:     "Acme",
		OgImage:     "https://example.com/media/og/acme.jpg",
		SourceURL:   "https://example.com/b/acme/1",
	}
	if page.Metadata != wantMeta {
		t.Errorf("metadata = %+v, want %+v", page.Metadata, wantMeta)
	}

	wantLinks := []string{"https://example.com/downloads/catalog.pdf", "https://acme.example/"}
	if !reflect.DeepEqual(page.Links, wantLinks) {
		t.Errorf("links = %v, want %v", page.Links, wantLinks)
	}

	wantMarkdown := "# Acme\n\nWelcome to Acme.\n\n## About us\n\n- Chairs\n\n- Tables"
	if page.Markdown != wantMarkdown {
		t.Errorf("markdown = %q, want %q", page.Markdown, wantMarkdown)
	}

	if strings.Contains(page.HTML, "__DATA__") || strings.Contains(page.HTML, "color: red") {
		t.Errorf("cleaned html still carries scripts or styles")
	}
}

func TestApplyKeepsStatusCode(t *testing.T) {
	page, err := Parse("https://example.com/", "<html><head><title>x</title></head><body><p>hi</p></body></html>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := entity.FetchResult{RawHTML: "<raw>", Metadata: entity.PageMetadata{StatusCode: 200}}
	page.Apply(&res)
	if res.Metadata.StatusCode != 200 || res.Metadata.Title != "x" || res.Markdown != "hi" || res.RawHTML != "<raw>" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{0, nil},
		{200, nil},
		{304, nil},
		{403, repository.ErrContentRestricted},
		{401, repository.ErrContentRestricted},
		{451, repository.ErrContentRestricted},
		{404, repository.ErrNavigationFailed},
		{503, repository.ErrNavigationFailed},
	}
	for _, tt := range tests {
		err := CheckStatus("https://example.com", tt.status)
		if tt.want == nil {
			if err != nil {
				t.Errorf("status %d: unexpected error %v", tt.status, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: got %v, want %v", tt.status, err, tt.want)
		}
	}
}
