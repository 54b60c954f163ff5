package carousel

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/scholarsite/folio/internal/bibtex"
)

const testBib = `@article{ahmadlou2010,
  title = {wavelet analysis of EEG},
  author = {Ahmadlou, Mehran and Adeli, Hojjat},
  journal = {Clinical EEG},
  volume = {41},
  number = {1},
  year = {2010},
  url = {https://example.org/eeg.pdf},
  image = {img/eeg.jpg},
}
@article{nodetails,
  journal = {Neuron},
}
@misc{bare,
}`

func renderDoc(t *testing.T, opts Options) *goquery.Document {
	t.Helper()

	records := bibtex.ParseEntries(testBib)
	html, err := Render(records, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing rendered HTML: %v", err)
	}
	return doc
}

func TestRender_ItemPerRecord(t *testing.T) {
	doc := renderDoc(t, Options{OwnerName: "Mehran Ahmadlou"})

	if n := doc.Find("div.item").Length(); n != 3 {
		t.Fatalf("rendered %d items, want 3", n)
	}
}

func TestRender_FullRecord(t *testing.T) {
	doc := renderDoc(t, Options{OwnerName: "Mehran Ahmadlou"})
	item := doc.Find("div.item").First()

	if got := item.Find("h3.pub-title").Text(); got != "Wavelet Analysis Of Eeg by Mehran Ahmadlou" {
		t.Errorf("title = %q", got)
	}
	if got, _ := item.Find("img.publication-img").Attr("src"); got != "img/eeg.jpg" {
		t.Errorf("image src = %q", got)
	}
	if got := item.Find("p.year-badge").Text(); got != "2010" {
		t.Errorf("year badge = %q", got)
	}
	if got := item.Find("p.journal-badge").Text(); got != "Clinical EEG(Vol. 41 | Issue 1)" {
		t.Errorf("journal badge = %q", got)
	}
	if got := item.Find("p.pub-authors").Text(); got != "M. Ahmadlou, H. Adeli" {
		t.Errorf("authors = %q", got)
	}

	download := item.Find("a.work-btn").Last()
	if got, _ := download.Attr("href"); got != "https://example.org/eeg.pdf" {
		t.Errorf("download href = %q", got)
	}
	if got, _ := download.Attr("target"); got != "_blank" {
		t.Errorf("download target = %q", got)
	}

	onclick, ok := item.Find("a.work-btn").First().Attr("onclick")
	if !ok {
		t.Fatal("cite button has no onclick attribute")
	}
	if !strings.HasPrefix(onclick, "copyBibliography('@article{ahmadlou2010,") {
		t.Errorf("onclick = %q", onclick)
	}
	if strings.Contains(onclick, "eeg.pdf") {
		t.Errorf("citation should not include url, got %q", onclick)
	}
}

func TestRender_Fallbacks(t *testing.T) {
	doc := renderDoc(t, DefaultOptions())
	items := doc.Find("div.item")

	journalOnly := items.Eq(1)
	if got := journalOnly.Find("p.journal-badge").Text(); got != "Neuron" {
		t.Errorf("journal badge without volume = %q", got)
	}
	if journalOnly.Find("span.journal-details").Length() != 0 {
		t.Error("journal details rendered without a volume")
	}

	bare := items.Eq(2)
	if got := bare.Find("h3.pub-title").Text(); got != DefaultTitle {
		t.Errorf("title fallback = %q", got)
	}
	if got := bare.Find("p.year-badge").Text(); got != "Unknown" {
		t.Errorf("year fallback = %q", got)
	}
	if bare.Find("p.journal-badge").Length() != 0 {
		t.Error("journal badge rendered without a journal")
	}
	if got := bare.Find("p.pub-authors").Text(); got != bibtex.UnknownAuthor {
		t.Errorf("authors fallback = %q", got)
	}
	if got, _ := bare.Find("img").Attr("src"); got != DefaultImage {
		t.Errorf("image fallback = %q", got)
	}
	download := bare.Find("a.work-btn").Last()
	if got, _ := download.Attr("href"); got != FallbackLink {
		t.Errorf("download fallback href = %q", got)
	}
	if got, _ := download.Attr("target"); got != "_self" {
		t.Errorf("download fallback target = %q", got)
	}
}

func TestRender_EscapesFieldText(t *testing.T) {
	records := bibtex.ParseEntries("@article{x,\n  journal = {<script>alert(1)</script>},\n}")
	html, err := Render(records, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing rendered HTML: %v", err)
	}

	if doc.Find("script").Length() != 0 {
		t.Errorf("journal text produced a script element:\n%s", html)
	}
	if got := doc.Find("p.journal-badge").Text(); got != "<script>alert(1)</script>" {
		t.Errorf("journal badge text = %q", got)
	}
}

func TestRender_Empty(t *testing.T) {
	html, err := Render(nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.TrimSpace(html) != "" {
		t.Errorf("Render(nil) = %q, want empty", html)
	}
}
