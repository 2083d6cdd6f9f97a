package v1

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/javivarba/chatbots/internal/view"
)

//go:embed templates/index.gohtml
var pageFS embed.FS

// Page renders the host page around the current document snapshot.
type Page struct {
	tmpl *template.Template
}

type pageElement struct {
	Class string
	HTML  template.HTML
}

type pageView struct {
	elements map[string]pageElement
}

// El returns the element for a host page ID. Fragment HTML was escaped when
// it was rendered, so it is embedded verbatim.
func (p pageView) El(id string) pageElement {
	return p.elements[id]
}

func NewPage() (*Page, error) {
	tmpl, err := template.ParseFS(pageFS, "templates/index.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse host page: %w", err)
	}

	return &Page{tmpl: tmpl}, nil
}

func (p *Page) Render(elements []view.Element) ([]byte, error) {
	data := pageView{elements: make(map[string]pageElement, len(elements))}
	for _, el := range elements {
		data.elements[el.ID] = pageElement{
			Class: strings.Join(el.Classes, " "),
			HTML:  template.HTML(el.HTML),
		}
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render host page: %w", err)
	}

	return buf.Bytes(), nil
}
