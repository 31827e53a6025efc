package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/wingman/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// highlight renders code for a 256-colour terminal, guessing the language
// when lang is empty. Falls back to the plain text.
func highlight(code, lang string) string {
	if lang == "" {
		if l := lexers.Analyse(code); l != nil {
			lang = l.Config().Name
		}
	}
	if lang == "" {
		lang = "plaintext"
	}

	var b strings.Builder
	if err := quick.Highlight(&b, code, lang, "terminal256", "monokai"); err != nil {
		return code
	}
	return b.String()
}

func renderProblem(w io.Writer, p *types.ProblemInfo) {
	fmt.Fprintln(w, titleStyle.Render("Problem"))
	fmt.Fprintln(w, boxStyle.Render(p.ProblemStatement))
	if p.Context != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Context:"), p.Context)
	}
}

func renderSolution(w io.Writer, s *types.Solution, lang string, color bool) {
	fmt.Fprintln(w, titleStyle.Render("Solution"))
	code := s.Code
	if color {
		code = highlight(code, lang)
	}
	fmt.Fprintln(w, code)

	if len(s.SuggestedResponses) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Suggested responses"))
		for _, r := range s.SuggestedResponses {
			fmt.Fprintf(w, "  • %s\n", r)
		}
	}
	if s.Reasoning != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Reasoning:"), s.Reasoning)
	}
}

func renderAnalysis(w io.Writer, a *types.Analysis) {
	fmt.Fprintln(w, boxStyle.Render(a.Text))
}
