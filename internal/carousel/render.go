// Package carousel renders parsed publications as items of the site's
// publications carousel.
package carousel

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/scholarsite/folio/internal/bibtex"
)

// ErrorItem is the carousel content shown when publications cannot be loaded.
const ErrorItem = `<div class="item"><p>Error loading publications</p></div>`

const (
	// DefaultImage is used for publications without an image field.
	DefaultImage = "img/publication-default.jpg"
	// DefaultTitle is used for publications without a title.
	DefaultTitle = "A Publication"
	// FallbackLink is the download target for publications without a url.
	FallbackLink = "#contact-sec"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("carousel").Parse(itemsTemplate))
}

// Options configures carousel rendering.
type Options struct {
	OwnerName    string // Appended to titles as "<title> by <owner>"
	DefaultImage string
}

// DefaultOptions returns default rendering options.
func DefaultOptions() Options {
	return Options{DefaultImage: DefaultImage}
}

// Item is the display form of one publication.
type Item struct {
	Image        string
	Title        string
	Year         string
	Journal      string
	Volume       string
	Number       string
	Authors      string
	Citation     string // Escaped citation, see bibtex.EscapeBib
	Link         string
	LinkTarget   string
	CiteOnClick  template.HTMLAttr
	HeadingTitle string
}

// NewItem builds the display form of rec.
func NewItem(rec *bibtex.Record, opts Options) Item {
	image := opts.DefaultImage
	if image == "" {
		image = DefaultImage
	}
	if v := rec.Get("image"); v != "" {
		image = v
	}

	title := rec.Title()
	if title == "" {
		title = DefaultTitle
	}
	heading := title
	if opts.OwnerName != "" {
		heading = fmt.Sprintf("%s by %s", title, opts.OwnerName)
	}

	year := rec.Get("year")
	if year == "" {
		year = "Unknown"
	}

	link, target := FallbackLink, "_self"
	if u := rec.Get("url"); u != "" {
		link, target = u, "_blank"
	}

	citation := bibtex.EscapeBib(rec)

	return Item{
		Image:        image,
		Title:        title,
		HeadingTitle: heading,
		Year:         year,
		Journal:      rec.Get("journal"),
		Volume:       rec.Get("volume"),
		Number:       rec.Get("number"),
		Authors:      bibtex.FormatAuthors(rec.Get("author")),
		Citation:     citation,
		Link:         link,
		LinkTarget:   target,
		// EscapeBib entity-escapes quotes, so the value cannot leave the attribute.
		CiteOnClick: template.HTMLAttr(`onclick="copyBibliography('` + citation + `')"`),
	}
}

// Render renders one carousel item per record, in the given order.
func Render(records []*bibtex.Record, opts Options) (string, error) {
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		items = append(items, NewItem(rec, opts))
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, items); err != nil {
		return "", fmt.Errorf("rendering carousel: %w", err)
	}
	return buf.String(), nil
}

const itemsTemplate = `{{range .}}
<div class="item">
  <div class="image-holder">
    <img src="{{.Image}}" alt="{{.HeadingTitle}}" class="publication-img">
    <div class="overlay-gradient"></div>
  </div>
  <div class="pub-badges">
    <p class="year-badge">{{.Year}}</p>
    {{- if .Journal}}
    <p class="journal-badge">{{.Journal}}{{if .Volume}}<span class="journal-details">(Vol. {{.Volume}}{{if .Number}} | Issue {{.Number}}{{end}})</span>{{end}}</p>
    {{- end}}
  </div>
  <div class="publication-content">
    <h3 class="pub-title">{{.HeadingTitle}}</h3>
    <p class="pub-authors">{{.Authors}}</p>
    <div class="pub-actions align-items-center">
      <a href="javascript:void(0);" class="work-btn btn-main-inverse rounded-pill" {{.CiteOnClick}}>Cite</a>
      <a href="{{.Link}}" class="work-btn btn-main-inverse rounded-pill" target="{{.LinkTarget}}">Download</a>
    </div>
  </div>
</div>
{{- end}}
`
