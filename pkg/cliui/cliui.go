// Package cliui provides terminal presentation helpers (banners, panels,
// spinners, markdown rendering) shared by the demo commands.
package cliui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	TitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	FactStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("231"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// spinnerFrames matches bubbletea's spinner.Dot pattern.
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// PassFail renders "PASS" or "FAIL" with the matching mark.
func PassFail(ok bool) string {
	if ok {
		return SuccessMark + " PASS"
	}
	return FailMark + " FAIL"
}

// Rule prints a section header: a title over a horizontal rule.
func Rule(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", TitleStyle.Render(title), DimStyle.Render(strings.Repeat("─", 60)))
}

// Banner prints the harness banner with a subtitle line.
func Banner(w io.Writer, title, subtitle string) {
	fmt.Fprintf(w, "\n  %s\n  %s\n\n", TitleStyle.Render(title), DimStyle.Render(subtitle))
}

// KV prints an aligned key/value pair inside a config panel.
func KV(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(fmt.Sprintf("%-22s", key+":")), value)
}

// Fact prints a single retrieved fact with its temporal validity window.
// invalidAt is empty for facts still considered current.
func Fact(w io.Writer, fact, validAt, invalidAt string) {
	fmt.Fprintf(w, "  • %s\n", FactStyle.Render(fact))
	switch {
	case validAt != "" && invalidAt != "":
		fmt.Fprintf(w, "    %s\n", WarnStyle.Render(fmt.Sprintf("valid %s → superseded %s", validAt, invalidAt)))
	case validAt != "":
		fmt.Fprintf(w, "    %s\n", DimStyle.Render(fmt.Sprintf("valid since %s", validAt)))
	case invalidAt != "":
		fmt.Fprintf(w, "    %s\n", WarnStyle.Render(fmt.Sprintf("superseded %s", invalidAt)))
	}
}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ and the elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			fmt.Fprintf(w, "\r  %s %s",
				spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
				msg,
			)

			select {
			case <-done:
				return
			case <-ticker.C:
				frame++
			}
		}
	}()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	close(done)
	wg.Wait()

	fmt.Fprintf(w, "\r  %s %s %s\n", Mark(err), msg, DimStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))))

	return err
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// RenderMarkdown renders markdown for terminal display using glamour.
// On renderer errors the raw content is returned so output is never lost.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}
