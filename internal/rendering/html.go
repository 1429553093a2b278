package rendering

import (
	"bytes"
	"html/template"
	"strings"
)

// Document is a drafted letter or email ready to be laid out.
type Document struct {
	Title  string
	Author string
	Text   string
}

type documentView struct {
	Title      string
	Author     string
	Paragraphs [][]string
}

var letterTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="author" content="{{.Author}}">
<style>
@page { size: A4; margin: 2cm; }
body { font-family: Georgia, "Times New Roman", serif; font-size: 11.5pt; line-height: 1.45; color: #111; }
p { margin: 0 0 0.9em 0; }
</style>
</head>
<body>
{{- range .Paragraphs}}
<p>{{range $i, $line := .}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
{{- end}}
</body>
</html>
`))

// SplitParagraphs splits text on blank lines into paragraphs of trimmed lines.
// Runs of blank lines collapse into one break.
func SplitParagraphs(text string) [][]string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var (
		paragraphs [][]string
		current    []string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	return paragraphs
}

// BuildHTML lays the document out as a printable page. Text is HTML-escaped.
func BuildHTML(doc Document) (string, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return "", &RenderError{Message: "document has no text"}
	}
	title := doc.Title
	if title == "" {
		title = "Document"
	}

	var buf bytes.Buffer
	err := letterTemplate.Execute(&buf, documentView{
		Title:      title,
		Author:     doc.Author,
		Paragraphs: SplitParagraphs(doc.Text),
	})
	if err != nil {
		return "", &TemplateError{Message: "failed to execute letter template", Cause: err}
	}
	return buf.String(), nil
}
