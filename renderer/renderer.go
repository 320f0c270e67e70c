// Package renderer renders budget reports to markdown, and markdown to HTML.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/budget"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

// RenderIncomes renders the income report to a markdown string.
func RenderIncomes(r *IncomeReport) string {
	partials := map[string]string{"split": "split.md"}
	return renderTemplate("incomes", "incomes.md", partials, funcs(r.Currency), r)
}

// RenderExpenses renders the expense report to a markdown string.
func RenderExpenses(r *ExpenseReport) string {
	return renderTemplate("expenses", "expenses.md", nil, funcs(r.Currency), r)
}

// RenderGoals renders the goal report to a markdown string.
func RenderGoals(r *GoalReport) string {
	partials := map[string]string{"goal_counts": "goal_counts.md"}
	return renderTemplate("goals", "goals.md", partials, funcs(r.Currency), r)
}

// RenderSummary renders the dashboard to a markdown string.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"split":       "split.md",
		"goal_counts": "goal_counts.md",
		"months":      "months.md",
	}
	return renderTemplate("summary", "summary.md", partials, funcs(s.Currency), s)
}

// RenderTrend renders the balance growth to a markdown string.
func RenderTrend(t *Trend) string {
	return renderTemplate("trend", "trend.md", nil, funcs(t.Currency), t)
}

// ToHTML converts markdown, tables included, to an HTML fragment.
func ToHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// funcs returns the template functions formatting amounts in currency.
func funcs(currency string) template.FuncMap {
	return template.FuncMap{
		"money":  func(a budget.Amount) string { return a.Format(currency) },
		"signed": func(a budget.Amount) string { return a.SignedFormat(currency) },
		"bar":    progressBar,
	}
}

// progressBar draws a percentage as a ten cell bar.
func progressBar(percent int) string {
	n := min(max(percent, 0), 100) / 10
	return strings.Repeat("█", n) + strings.Repeat("░", 10-n)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, fm template.FuncMap, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(fm).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
