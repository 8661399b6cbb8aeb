package views

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed layout.html
var layoutSource string

var layout = template.Must(template.New("layout.html").Parse(layoutSource))

type page struct {
	Title   string
	Content template.HTML
}

// RenderPage embeds an already sanitized HTML fragment into the site layout.
func RenderPage(title, bodyHTML string) (string, error) {
	var buf strings.Builder
	data := page{
		Title:   title,
		Content: template.HTML(bodyHTML),
	}
	if err := layout.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render layout: %w", err)
	}
	return buf.String(), nil
}

// Title builds a page title from a heading and the site title.
func Title(heading, site string) string {
	switch {
	case heading == "":
		return site
	case site == "":
		return heading
	}
	return heading + " | " + site
}

// HumanizeIdentifier turns a post identifier such as "js_recursion" into "Js Recursion".
func HumanizeIdentifier(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-'
	})
	// cases.Caser is stateful, so one is built per call.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
