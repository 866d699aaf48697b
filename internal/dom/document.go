package dom

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SettingsSelector locates the JSON settings payload embedded in a page.
const SettingsSelector = `script[type="application/json"][data-drupal-selector="drupal-settings-json"]`

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// ParseFile parses the HTML document stored at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open page %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", path, err)
	}
	return doc, nil
}

// Root returns a selection holding only the document node.
func (d *Document) Root() *Selection {
	return wrap(d.doc.Selection)
}

// EmbeddedSettings returns the raw JSON of the page's settings script, if
// the page carries one.
func (d *Document) EmbeddedSettings() ([]byte, bool) {
	s := d.doc.Find(SettingsSelector).First()
	if s.Length() == 0 {
		return nil, false
	}
	payload := strings.TrimSpace(s.Text())
	if payload == "" {
		return nil, false
	}
	return []byte(payload), true
}
