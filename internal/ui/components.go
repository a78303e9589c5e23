package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/wahlandcase/issue-prefix/internal/models"
)

// Printer renders status lines for a single writer, with colours only when
// that writer is a terminal (NO_COLOR and CLICOLOR_FORCE are honoured)
type Printer struct {
	w        io.Writer
	renderer *lipgloss.Renderer
}

// NewPrinter creates a Printer for w
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	return &Printer{w: w, renderer: r}
}

func (p *Printer) style(color lipgloss.Color) lipgloss.Style {
	return p.renderer.NewStyle().Foreground(color)
}

// Warning prints a non-fatal problem
func (p *Printer) Warning(msg string) {
	icon := p.style(ColorYellow).Bold(true).Render("⚠")
	fmt.Fprintf(p.w, "%s %s\n", icon, msg)
}

// Result prints what a hook run did; unchanged runs stay silent
func (p *Printer) Result(res models.AnnotateResult) {
	if !res.Outcome.Changed() {
		return
	}

	color := OutcomeColor(true, res.Outcome == models.DefaultInserted)
	token := p.style(color).Bold(true).Render(res.Token)
	icon := p.style(color).Render("✓")

	switch res.Outcome {
	case models.Inserted:
		fmt.Fprintf(p.w, "%s added %s to commit message\n", icon, token)
	case models.DefaultInserted:
		fmt.Fprintf(p.w, "%s no issue in branch, added %s to commit message\n", icon, token)
	}
}

// Preview prints the message a dry run would have written
func (p *Printer) Preview(res models.AnnotateResult) {
	fmt.Fprintln(p.w, p.SectionHeader("DRY RUN ("+res.Outcome.String()+")", ColorCyan))
	for _, line := range strings.Split(strings.TrimRight(res.Message, "\n"), "\n") {
		fmt.Fprintln(p.w, "  "+line)
	}
}

// Installed reports a freshly written hook script
func (p *Printer) Installed(path string) {
	icon := p.style(ColorGreen).Render("✓")
	fmt.Fprintf(p.w, "%s installed %s\n", icon, p.style(ColorCyan).Render(path))
}

// SectionHeader creates a styled section header with a title and color
// Example: "─── TITLE ───────────"
func (p *Printer) SectionHeader(title string, color lipgloss.Color) string {
	dashes := strings.Repeat("─", max(25-len(title), 0))
	headerStyle := p.style(color)
	titleStyle := p.style(color).Bold(true)

	return fmt.Sprintf("%s%s%s",
		headerStyle.Render("─── "),
		titleStyle.Render(title),
		headerStyle.Render(" "+dashes),
	)
}

// YesNoButtons creates interactive Yes/No buttons
// selection: 0 for Yes, 1 for No
func YesNoButtons(selection int) string {
	var yesBorder, yesText lipgloss.Color
	var noBorder, noText lipgloss.Color

	if selection == 0 {
		yesBorder, yesText = ColorGreen, ColorGreen
		noBorder, noText = ColorDarkGray, ColorWhite
	} else {
		yesBorder, yesText = ColorDarkGray, ColorWhite
		noBorder, noText = ColorRed, ColorRed
	}

	yesStyle := lipgloss.NewStyle().Foreground(yesBorder)
	yesTextStyle := lipgloss.NewStyle().Foreground(yesText).Bold(true)
	noStyle := lipgloss.NewStyle().Foreground(noBorder)
	noTextStyle := lipgloss.NewStyle().Foreground(noText).Bold(true)

	iconYes, iconNo := " ", " "
	if selection == 0 {
		iconYes = ">"
	} else {
		iconNo = ">"
	}

	line1 := yesStyle.Render("  ┌────────┐") + " " + noStyle.Render("┌───────┐")
	line2 := fmt.Sprintf("%s%s%s %s%s%s",
		yesStyle.Render("  │"),
		yesTextStyle.Render(fmt.Sprintf(" %s  YES ", iconYes)),
		yesStyle.Render("│"),
		noStyle.Render("│"),
		noTextStyle.Render(fmt.Sprintf(" %s  NO ", iconNo)),
		noStyle.Render("│"),
	)
	line3 := yesStyle.Render("  └────────┘") + " " + noStyle.Render("└───────┘")

	return line1 + "\n" + line2 + "\n" + line3
}
