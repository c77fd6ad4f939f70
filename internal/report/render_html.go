package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"strconv"
	"strings"
	texttemplate "text/template" // nosemgrep

	"jmdash/internal/table"
)

// FilterForm adds controls for the row filters to the HTML report. Submitting the form
// reloads the page from Action with the filter state in the query string.
type FilterForm struct {
	Action string
	State  table.FilterState
}

func getHtmlReportBegin(title string) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html>
<html lang="en">
`)
	sb.WriteString("<head>\n")
	sb.WriteString(fmt.Sprintf(`    <meta charset="UTF-8">
    <title>%s</title>
    <meta name="viewport" content="width=device-width, initial-scale=1">
`, htmltemplate.HTMLEscapeString(title)))
	// link the style sheets and javascript
	sb.WriteString(`
    <link rel="stylesheet" href="https://unpkg.com/normalize.css@8.0.1/normalize.css" integrity="sha384-M86HUGbBFILBBZ9ykMAbT3nVb0+2C7yZlF8X2CiKNpDOQjKroMJqIeGZ/Le8N2Qp" crossorigin="anonymous" referrerpolicy="no-referrer" />
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/purecss@3.0.0/build/pure-min.css" integrity="sha384-X38yfunGUhNzHpBaEBsWLO+A0HDYOQi8ufWDkZ0k9e0eXz/tH3II7uKZ9msv++Ls" crossorigin="anonymous" referrerpolicy="no-referrer" />
    <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/jquery.tablesorter/2.31.3/css/theme.blue.min.css" crossorigin="anonymous" referrerpolicy="no-referrer" />
    <script src="https://code.jquery.com/jquery-3.7.1.min.js" crossorigin="anonymous" referrerpolicy="no-referrer"></script>
    <script src="https://cdnjs.cloudflare.com/ajax/libs/jquery.tablesorter/2.31.3/js/jquery.tablesorter.combined.min.js" crossorigin="anonymous" referrerpolicy="no-referrer"></script>
    <script src="https://unpkg.com/chart.js@3.7.1/dist/chart.min.js" integrity="sha384-7NrRHqlWUj2hJl3a/dZj/a1GxuQc56mJ3aYsEnydBYrY1jR+RSt6SBvK3sHfj+mJ" crossorigin="anonymous"  referrerpolicy="no-referrer"></script>
`)
	sb.WriteString(`
	<style>
        .content {
            padding: 0 2em;
            line-height: 1.6em;
        }
        .content h2 {
            font-weight: 300;
            color: #888;
        }
        .filters {
            margin: 1em 0;
        }
        .filters label {
            margin-right: 1.5em;
        }
        .pie-legend span {
            display: inline-block;
            margin-right: 1.5em;
            padding: 2px 6px;
            color: white;
            font-size: 8pt;
            text-align: center;
        }
	</style>
`)
	sb.WriteString("</head>\n")
	return sb.String()
}

func getHtmlFilterForm(form FilterForm) string {
	checked := func(b bool) string {
		if b {
			return " checked"
		}
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<form class=\"pure-form filters\" method=\"get\" action=\"%s\">\n", htmltemplate.HTMLEscapeString(form.Action)))
	sb.WriteString(fmt.Sprintf("<label>Series filter <input type=\"text\" name=\"seriesFilter\" value=\"%s\"></label>\n", htmltemplate.HTMLEscapeString(form.State.SeriesFilter)))
	// unchecked boxes are not submitted, the hidden fields make "off" explicit and the last value wins
	sb.WriteString("<input type=\"hidden\" name=\"showControllersOnly\" value=\"false\">\n")
	sb.WriteString(fmt.Sprintf("<label><input type=\"checkbox\" name=\"showControllersOnly\" value=\"true\"%s> Show controllers only</label>\n", checked(form.State.ShowControllersOnly)))
	sb.WriteString("<input type=\"hidden\" name=\"filtersOnlySampleSeries\" value=\"false\">\n")
	sb.WriteString(fmt.Sprintf("<label><input type=\"checkbox\" name=\"filtersOnlySampleSeries\" value=\"true\"%s> Filter only sample series</label>\n", checked(form.State.FiltersOnlySampleSeries)))
	sb.WriteString("<button type=\"submit\" class=\"pure-button pure-button-primary\">Apply</button>\n")
	sb.WriteString("</form>\n")
	return sb.String()
}

func createHtmlReport(doc Document) (out []byte, err error) {
	return createHtmlReportWithForm(doc, nil)
}

// CreateHtmlReportWithFilterForm generates an HTML report that includes controls for the row filters
func CreateHtmlReportWithFilterForm(doc Document, form FilterForm) (out []byte, err error) {
	return createHtmlReportWithForm(doc, &form)
}

func createHtmlReportWithForm(doc Document, form *FilterForm) (out []byte, err error) {
	var sb strings.Builder
	sb.WriteString(getHtmlReportBegin(doc.Title))

	// body starts here
	sb.WriteString("<body>\n")
	sb.WriteString("<main class=\"content\">\n")
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", htmltemplate.HTMLEscapeString(doc.Title)))
	sb.WriteString(`
<noscript>
	<h3>JavaScript is disabled. Functionality is limited.</h3>
</noscript>
`)
	if form != nil {
		sb.WriteString(getHtmlFilterForm(*form))
	}
	if doc.Chart != nil {
		sb.WriteString(fmt.Sprintf("<h2 id=\"%s-title\">%s</h2>\n", htmltemplate.HTMLEscapeString(doc.Chart.ID), htmltemplate.HTMLEscapeString(doc.Chart.Name)))
		chart, err := RenderPieChart(*doc.Chart)
		if err != nil {
			return nil, err
		}
		sb.WriteString(chart)
	}
	for _, rendered := range doc.Tables {
		sb.WriteString(fmt.Sprintf("<h2 id=\"%s-title\">%s</h2>\n", htmltemplate.HTMLEscapeString(rendered.ID), htmltemplate.HTMLEscapeString(rendered.Name)))
		sb.WriteString(RenderHTMLTable(rendered))
		if !hasData(rendered) {
			sb.WriteString("<p>" + NoDataFound + "</p>\n")
		}
	}
	sb.WriteString("</main>\n")
	script, err := getTableSorterJavascript(doc.Tables)
	if err != nil {
		return nil, err
	}
	sb.WriteString(script)
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")
	out = []byte(sb.String())
	return
}

// RenderHTMLTable renders the header rows, the summary body and the regular body of a table.
// Grouping header rows and the summary body are marked so that tablesorter leaves them alone.
func RenderHTMLTable(rendered table.Rendered) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<table id="%s" class="tablesorter">`, htmltemplate.HTMLEscapeString(rendered.ID)))
	sb.WriteString(`<thead>`)
	for _, headerRow := range rendered.HeaderRows {
		if headerRow.NoSort {
			sb.WriteString(`<tr class="tablesorter-no-sort">`)
		} else {
			sb.WriteString(`<tr>`)
		}
		for _, cell := range headerRow.Cells {
			attrs := ""
			if !cell.Sortable {
				attrs += ` data-sorter="false"`
			}
			if cell.ColSpan > 1 {
				attrs += ` colspan="` + strconv.Itoa(cell.ColSpan) + `"`
			}
			sb.WriteString(`<th` + attrs + `>` + htmltemplate.HTMLEscapeString(cell.Label) + `</th>`)
		}
		sb.WriteString(`</tr>`)
	}
	sb.WriteString(`</thead>`)
	if rendered.Summary != nil {
		sb.WriteString(`<tbody class="tablesorter-no-sort">`)
		sb.WriteString(renderHTMLRow(*rendered.Summary))
		sb.WriteString(`</tbody>`)
	}
	sb.WriteString(`<tbody>`)
	for _, row := range rendered.Body {
		sb.WriteString(renderHTMLRow(row))
	}
	sb.WriteString(`</tbody>`)
	sb.WriteString("</table>\n")
	return sb.String()
}

func renderHTMLRow(row table.RenderedRow) string {
	var sb strings.Builder
	sb.WriteString(`<tr>`)
	for _, cell := range row.Cells {
		sb.WriteString(`<td>` + htmltemplate.HTMLEscapeString(cell) + `</td>`)
	}
	sb.WriteString(`</tr>`)
	return sb.String()
}

const tableSorterTemplate = `
<script>
$(document).ready(function() {
    $.extend($.tablesorter.defaults, {
        theme: 'blue',
        cssInfoBlock: "tablesorter-no-sort",
        widthFixed: true,
        widgets: ['zebra']
    });
{{- range .}}
    $("#{{.ID}}").tablesorter({sortList: {{.SortList}}});
{{- end}}
});
</script>
`

func getTableSorterJavascript(tables []table.Rendered) (string, error) {
	type sorter struct {
		ID       string
		SortList string
	}
	sorters := []sorter{}
	for _, rendered := range tables {
		sortList := rendered.SortList
		if sortList == nil {
			sortList = []table.SortKey{}
		}
		sortListJSON, err := json.Marshal(sortList)
		if err != nil {
			return "", fmt.Errorf("failed to encode sort list for table %s: %w", rendered.ID, err)
		}
		sorters = append(sorters, sorter{ID: htmltemplate.JSEscapeString(rendered.ID), SortList: string(sortListJSON)})
	}
	tmpl := texttemplate.Must(texttemplate.New("tableSorterTemplate").Parse(tableSorterTemplate))
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, sorters); err != nil {
		slog.Error("error executing template", slog.String("error", err.Error()))
		return "", err
	}
	return buf.String(), nil
}

const pieChartTemplate = `<div class="chart-container" style="max-width: 400px">
<canvas id="{{.ID}}"></canvas>
</div>
<div class="pie-legend">{{.Legend}}</div>
<script>
new Chart(document.getElementById('{{.ID}}'), {
    type: 'pie',
    data: {
        labels: [{{.Labels}}],
        datasets: [{
            data: [{{.Data}}],
            backgroundColor: [{{.Colors}}],
            borderWidth: 1
        }]
    },
    options: {
        plugins: {
            legend: {
                display: true
            },
            tooltip: {
                callbacks: {
                    label: function(ctx) {
                        return ctx.label + ": " + [{{.Percents}}][ctx.dataIndex] + "%";
                    }
                }
            }
        }
    }
});
</script>
`

// PieChartTemplateStruct holds the values substituted into the pie chart template
type PieChartTemplateStruct struct {
	ID       string
	Labels   string
	Data     string
	Colors   string
	Percents string
	Legend   string
}

// RenderPieChart generates the HTML/JavaScript for a pie chart. Each slice is labeled with
// its percentage of the whole, rounded to two decimals.
func RenderPieChart(chart PieChart) (string, error) {
	var labels, data, colors, percents, legend []string
	for _, slice := range chart.Slices {
		labels = append(labels, fmt.Sprintf("'%s'", htmltemplate.JSEscapeString(slice.Label)))
		data = append(data, strconv.FormatFloat(slice.Value, 'f', -1, 64))
		colors = append(colors, fmt.Sprintf("'%s'", htmltemplate.JSEscapeString(slice.Color)))
		percent := FormatPercent(slice.Percent)
		percents = append(percents, fmt.Sprintf("'%s'", percent))
		legend = append(legend, fmt.Sprintf(`<span style="background-color:%s">%s<br/>%s%%</span>`,
			htmltemplate.HTMLEscapeString(slice.Color), htmltemplate.HTMLEscapeString(slice.Label), percent))
	}
	tmpl := texttemplate.Must(texttemplate.New("pieChartTemplate").Parse(pieChartTemplate))
	buf := new(bytes.Buffer)
	err := tmpl.Execute(buf, PieChartTemplateStruct{
		ID:       htmltemplate.JSEscapeString(chart.ID),
		Labels:   strings.Join(labels, ","),
		Data:     strings.Join(data, ","),
		Colors:   strings.Join(colors, ","),
		Percents: strings.Join(percents, ","),
		Legend:   strings.Join(legend, ""),
	})
	if err != nil {
		slog.Error("error executing template", slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to render chart %s: %w", chart.ID, err)
	}
	return buf.String(), nil
}

// FormatPercent formats an already rounded percentage without trailing zeros, e.g., 99.8
func FormatPercent(percent float64) string {
	return strconv.FormatFloat(percent, 'f', -1, 64)
}
