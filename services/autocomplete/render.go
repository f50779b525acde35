package autocomplete

import (
	"bytes"
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"

	"teleka/models"
)

// Row is one rendered dropdown line.
type Row struct {
	// Index is the position in the suggestion list; -1 for error rows.
	Index       int    `json:"index"`
	Main        string `json:"main,omitempty"`
	Category    string `json:"category,omitempty"`
	Secondary   string `json:"secondary,omitempty"`
	Recent      bool   `json:"recent,omitempty"`
	Highlighted bool   `json:"highlighted,omitempty"`
	Error       bool   `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
}

// FormatPlaceType turns "bus_station" into "Bus Station".
func FormatPlaceType(t string) string {
	parts := strings.Split(t, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}

// BuildRows renders suggestions. highlighted is a suggestion index or -1.
func BuildRows(items []models.Suggestion, highlighted int) []Row {
	rows := make([]Row, 0, len(items))
	for i, it := range items {
		if it.Error {
			rows = append(rows, Row{Index: -1, Error: true, Message: it.Message})
			continue
		}
		row := Row{
			Index:       i,
			Main:        it.MainText(),
			Secondary:   it.StructuredFormatting.SecondaryText,
			Recent:      it.Origin == models.OriginRecent,
			Highlighted: i == highlighted,
		}
		if len(it.Types) > 0 && it.Types[0] != "" {
			row.Category = FormatPlaceType(it.Types[0])
		}
		rows = append(rows, row)
	}
	return rows
}

var dropdownTmpl = template.Must(template.New("dropdown").Parse(
	`{{range .}}{{if .Error}}<div class="pac-item pac-error"><span class="pac-item-query">{{.Message}}</span></div>` +
		`{{else}}<div class="pac-item{{if .Recent}} recent{{end}}{{if .Highlighted}} pac-item-selected{{end}}" data-index="{{.Index}}">` +
		`{{if .Recent}}<span class="recent-icon">↻</span>{{end}}` +
		`<span class="pac-item-query">{{.Main}}{{if .Category}} ({{.Category}}){{end}}</span><span>{{.Secondary}}</span></div>{{end}}{{end}}`))

// RenderHTML renders rows as the pac-container markup.
func RenderHTML(rows []Row) (string, error) {
	var buf bytes.Buffer
	if err := dropdownTmpl.Execute(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}
