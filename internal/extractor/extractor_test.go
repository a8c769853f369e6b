package extractor

import (
	"reflect"
	"strings"
	"testing"

	"github.com/user/brand-ingest/internal/entity"
)

// -- Sample data ---------------------------------------------------------------

const brandPage = `<html><head><title>Acme</title></head><body><div id="app"></div>
<script>window.__NUXT__={data:[{brand:{name:"Acme",phone:"+49 30 1234567",street:"Hauptstraße 1",city:"Berlin",zip:"10115",email:"info@acme.example",lat:52.52,lng:13.405,homepage:"https:\/\/acme.example",facebook:"https:\/\/www.facebook.com\/acme",instagram:"https:\/\/instagram.com\/acme",pinterest:"https:\/\/www.pinterest.de\/acme",contactName:"Jane Doe",contactJobTitle:"Head of Sales",distributors:[{id:1234567,name:"Foo Handel GmbH",logo:"\/uploads\/logos\/foo.png",distributorType:"Wholesaler",fields:["Lagerweg 5","Hamburg","20095","+49 40 7654321","sales@foo.example","https:\/\/foo.example"]},{id:7654321,name:"Bar Interiors",logo:"\/uploads\/logos\/bar.png",phone:"+33 1 2345678",web:"https:\/\/bar.example",mail:"hello@bar.example"}]}}]}</script>
</body></html>`

// -- Contact details -----------------------------------------------------------

func TestExtractContactDetails_PrimaryBlock(t *testing.T) {
	got, strategy := extractContact(brandPage)
	if strategy != "phone-street-distributors" {
		t.Fatalf("expected primary strategy, got %q", strategy)
	}
	want := entity.ContactDetails{
		Street:          "Hauptstraße 1",
		City:            "Berlin",
		Zip:             "10115",
		Phone:           "+49 30 1234567",
		Email:           "info@acme.example",
		Website:         "https://acme.example",
		Facebook:        "https://www.facebook.com/acme",
		Instagram:       "https://instagram.com/acme",
		Pinterest:       "https://www.pinterest.de/acme",
		Lat:             "52.52",
		Lng:             "13.405",
		ContactName:     "Jane Doe",
		ContactJobTitle: "Head of Sales",
	}
	if got != want {
		t.Fatalf("unexpected contact details:\n got %+v\nwant %+v", got, want)
	}
}

func TestExtractContactDetails_JSONFallbackRegion(t *testing.T) {
	doc := `<script>{"brand":{"title":"Widget","phone":"+1 555 0100 22","email":"hello@widget.example"}}</script>`
	got, strategy := extractContact(doc)
	if strategy != "likely-region" {
		t.Fatalf("expected likely-region strategy, got %q", strategy)
	}
	if got.Phone != "+1 555 0100 22" {
		t.Errorf("phone: got %q", got.Phone)
	}
	if got.Email != "hello@widget.example" {
		t.Errorf("email: got %q", got.Email)
	}
}

func TestExtractContactDetails_LooserBoundary(t *testing.T) {
	doc := `{street:"Rue 9",city:"Paris",zip:"75001",distributors:[]}`
	got, strategy := extractContact(doc)
	if strategy != "street-distributors" {
		t.Fatalf("expected street-distributors strategy, got %q", strategy)
	}
	if got.Street != "Rue 9" || got.City != "Paris" || got.Zip != "75001" {
		t.Fatalf("unexpected address: %+v", got)
	}
}

func TestExtractContactDetails_DocumentScan(t *testing.T) {
	doc := `var cfg = {telephone:"+44 20 7946 0958", postcode: SW1A-1AA}`
	got, strategy := extractContact(doc)
	if strategy != "document-scan" {
		t.Fatalf("expected document-scan strategy, got %q", strategy)
	}
	if got.Phone != "+44 20 7946 0958" {
		t.Errorf("phone: got %q", got.Phone)
	}
	if got.Zip != "SW1A-1AA" {
		t.Errorf("zip from bare value: got %q", got.Zip)
	}
}

func TestExtractContactDetails_UnicodeEscapes(t *testing.T) {
	slash := jsEscape("002F")
	doc := `{phone:"+49 89 555555",street:"Ring 2",city:"Munich",zip:"80331",homepage:"https:` + slash + slash + `acme.example` + slash + `de",distributors:[]}`
	got := ExtractContactDetails(doc)
	if got.Website != "https://acme.example/de" {
		t.Fatalf("expected decoded homepage, got %q", got.Website)
	}
}

func TestExtractContactDetails_RejectsLabelsAsValues(t *testing.T) {
	doc := `{phone:"+49 30 999999",street:"Weg 1",city:"Bonn",zip:"53111",contactName:"contactJobTitle",contactJobTitle:"{}",email:"email",distributors:[]}`
	got := ExtractContactDetails(doc)
	if got.ContactName != "" {
		t.Errorf("label accepted as contact name: %q", got.ContactName)
	}
	if got.ContactJobTitle != "" {
		t.Errorf("structural token accepted as job title: %q", got.ContactJobTitle)
	}
	if got.Email != "" {
		t.Errorf("label accepted as email: %q", got.Email)
	}
}

func TestExtractContactDetails_RejectsScriptLiterals(t *testing.T) {
	doc := `{brand:{phone:"+1 555 010 0000",street:null,city:undefined,zip:null,contactName:null,contactJobTitle:false,email:"info@acme.example",distributors:[]}}`
	got := ExtractContactDetails(doc)
	if got.Phone != "+1 555 010 0000" || got.Email != "info@acme.example" {
		t.Fatalf("real values lost: %+v", got)
	}
	for field, v := range map[string]string{
		"street":          got.Street,
		"city":            got.City,
		"zip":             got.Zip,
		"contactName":     got.ContactName,
		"contactJobTitle": got.ContactJobTitle,
	} {
		if v != "" {
			t.Errorf("%s: literal accepted as value: %q", field, v)
		}
	}
}

func TestExtractContactDetails_Empty(t *testing.T) {
	for _, doc := range []string{"", "   ", "<html><body>No data</body></html>"} {
		if got := ExtractContactDetails(doc); !got.IsEmpty() {
			t.Errorf("expected empty details for %q, got %+v", doc, got)
		}
	}
}

// -- Plausibility ----------------------------------------------------------------

func TestIsPlausibleEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"info@acme.example", true},
		{"a@b.c", true},
		{"@acme.example", false},
		{"info@acme", false},
		{"info@acme.", false},
		{"email", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := IsPlausibleEmail(tc.in); got != tc.want {
				t.Errorf("IsPlausibleEmail(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsPlausibleContactText(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Jane Doe", true},
		{"Jo", true},
		{"J", false},
		{"{name}", false},
		{"[0]", false},
		{"https://acme.example", false},
		{"www.acme.example", false},
		{"jane@acme.example", false},
		{"123456", false},
		{"Head of Sales", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := IsPlausibleContactText(tc.in); got != tc.want {
				t.Errorf("IsPlausibleContactText(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeValue(t *testing.T) {
	cases := map[string]string{
		"  Smith " + jsEscape("0026") + " Sons  ": "Smith & Sons",
		`Tom &amp; Jerry`:                         "Tom & Jerry",
		`say \"hi\"`:                              `say "hi"`,
		`a\\b`:                                    `a\b`,
		`https:\/\/x.example`:                     "https://x.example",
		"https" + jsEscape("003A") + "//x":        "https://x",
	}
	for in, want := range cases {
		if got := decodeValue(in); got != want {
			t.Errorf("decodeValue(%q) = %q, want %q", in, got, want)
		}
	}
}

// -- Distributors ----------------------------------------------------------------

func TestExtractDistributors(t *testing.T) {
	got := ExtractDistributors(brandPage)
	want := []entity.ParsedDistributor{
		{
			Name:    "Foo Handel GmbH",
			Type:    "Wholesaler",
			Street:  "Lagerweg 5",
			City:    "Hamburg",
			Zip:     "20095",
			Phone:   "+49 40 7654321",
			Email:   "sales@foo.example",
			Website: "https://foo.example",
		},
		{
			Name:    "Bar Interiors",
			Phone:   "+33 1 2345678",
			Email:   "hello@bar.example",
			Website: "https://bar.example",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected distributors:\n got %+v\nwant %+v", got, want)
	}
}

func TestExtractDistributors_JSONKeysAreSkipped(t *testing.T) {
	doc := `[{"id":2345678,"name":"Nordic Supply","logo":"/img/logo/nordic.png","distributorType":"Retailer","street","Kungsgatan 1","city","Stockholm","zip","11143"}]`
	got := ExtractDistributors(doc)
	if len(got) != 1 {
		t.Fatalf("expected one distributor, got %d: %+v", len(got), got)
	}
	d := got[0]
	if d.Name != "Nordic Supply" || d.Type != "Retailer" {
		t.Fatalf("unexpected name/type: %+v", d)
	}
	if d.Street != "Kungsgatan 1" || d.City != "Stockholm" || d.Zip != "11143" {
		t.Fatalf("labels leaked into address: %+v", d)
	}
}

func TestExtractDistributors_EntryAtEndOfDocument(t *testing.T) {
	cases := []struct {
		doc  string
		want string
	}{
		{`distributors:[{id:1234567,name:"Nordic AB",logo:"/img/d/1.png"`, "Nordic AB"},
		{`x 1234567 "Acme" "logo.png"`, "Acme"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			got := ExtractDistributors(tc.doc)
			if len(got) != 1 || got[0].Name != tc.want {
				t.Fatalf("expected %q, got %+v", tc.want, got)
			}
		})
	}
}

func TestWindowClampsToDocument(t *testing.T) {
	s := "abc"
	cases := []struct {
		from, to int
		want     string
	}{
		{3, 3, ""},
		{5, 9, ""},
		{-2, 2, "ab"},
		{1, 10, "bc"},
	}
	for _, tc := range cases {
		if got := window(s, tc.from, tc.to); got != tc.want {
			t.Errorf("window(%d, %d) = %q, want %q", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestExtractDistributors_None(t *testing.T) {
	if got := ExtractDistributors(`{phone:"+49 30 1234567"}`); len(got) != 0 {
		t.Fatalf("expected no distributors, got %+v", got)
	}
}

// -- Catalog links ---------------------------------------------------------------

func TestExtractCatalogLinks(t *testing.T) {
	links := []string{
		"https://acme.example/downloads/catalog-2026.pdf?x=1",
		"https://acme.example/about",
		"https://acme.example/files/Brochure.PDF",
		"https://acme.example/downloads/catalog-2026.pdf?x=1",
		"https://acme.example/media/price.pdf",
		"",
	}
	got := ExtractCatalogLinks(links)
	want := []entity.ParsedCatalogLink{
		{URL: "https://acme.example/downloads/catalog-2026.pdf?x=1", Filename: "catalog-2026.pdf"},
		{URL: "https://acme.example/files/Brochure.PDF", Filename: "Brochure.PDF"},
		{URL: "https://acme.example/media/price.pdf", Filename: "price.pdf"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected catalog links:\n got %+v\nwant %+v", got, want)
	}
}

// -- Images ----------------------------------------------------------------------

func TestExtractImageURLs_LogoFromMetadata(t *testing.T) {
	meta := entity.PageMetadata{OgImage: "https://cdn.example/brands/logo/acme.png?v=3"}
	got := ExtractImageURLs("<html></html>", meta)
	if got.LogoURL != "https://cdn.example/brands/logo/acme.png" {
		t.Errorf("logo: got %q", got.LogoURL)
	}
	if got.HeaderImageURL != "" {
		t.Errorf("a logo must not become the header image, got %q", got.HeaderImageURL)
	}
}

func TestExtractImageURLs_FromDocument(t *testing.T) {
	doc := `<script>{logo:"https:\/\/cdn.example\/uploads\/logos\/acme.svg?w=200",about:"https://cdn.example/img/about-us.jpg"}</script>`
	meta := entity.PageMetadata{OgImage: "https://cdn.example/og/share.jpg"}
	got := ExtractImageURLs(doc, meta)
	want := entity.ExtractedImageURLs{
		LogoURL:        "https://cdn.example/uploads/logos/acme.svg",
		AboutImageURL:  "https://cdn.example/img/about-us.jpg",
		HeaderImageURL: "https://cdn.example/og/share.jpg",
	}
	if got != want {
		t.Fatalf("unexpected images:\n got %+v\nwant %+v", got, want)
	}
}

func TestExtractImageURLs_HeaderFromDocument(t *testing.T) {
	doc := `<img src="https://cdn.example/media/header-acme.webp?q=80">`
	got := ExtractImageURLs(doc, entity.PageMetadata{})
	if got.HeaderImageURL != "https://cdn.example/media/header-acme.webp" {
		t.Fatalf("header: got %q", got.HeaderImageURL)
	}
}

func TestFallbackHeaderImage(t *testing.T) {
	if got := FallbackHeaderImage(entity.PageMetadata{OgImage: "https://cdn.example/logo/a.png"}); got != "" {
		t.Errorf("logo returned as fallback header: %q", got)
	}
	if got := FallbackHeaderImage(entity.PageMetadata{OgImage: "https://cdn.example/og/a.png?x"}); got != "https://cdn.example/og/a.png" {
		t.Errorf("unexpected fallback header: %q", got)
	}
}

// -- Whole extraction ------------------------------------------------------------

func TestExtract_Idempotent(t *testing.T) {
	fetch := entity.FetchResult{
		RawHTML:  brandPage,
		Links:    []string{"https://acme.example/catalog.pdf"},
		Metadata: entity.PageMetadata{OgImage: "https://cdn.example/og/share.jpg"},
	}
	first := Extract(fetch)
	second := Extract(fetch)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction is not deterministic:\n%+v\n%+v", first, second)
	}
	if len(first.Distributors) != 2 || len(first.CatalogLinks) != 1 {
		t.Fatalf("unexpected fragment counts: %+v", first)
	}
	if !strings.HasPrefix(first.ContactDetails.Phone, "+49") {
		t.Fatalf("unexpected phone %q", first.ContactDetails.Phone)
	}
}
