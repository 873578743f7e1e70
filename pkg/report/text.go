package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorCyan = lipgloss.Color("36")
	colorBlue = lipgloss.Color("75")
	colorGray = lipgloss.Color("245")
	colorDim  = lipgloss.Color("240")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleLink   = lipgloss.NewStyle().Foreground(colorBlue).Padding(0, 1)
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1).Align(lipgloss.Right)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
)

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

// SponsorsURL returns the GitHub Sponsors page of login.
func SponsorsURL(login string) string {
	return "https://github.com/sponsors/" + login
}

// WriteText renders r as two terminal tables: fundable repositories and
// sponsorable contributors.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Fundable repositories (%d)", len(r.Repositories))))
	b.WriteString("\n")
	if len(r.Repositories) == 0 {
		b.WriteString(styleDim.Render("  none of the crawled crates declare funding links"))
		b.WriteString("\n")
	} else {
		b.WriteString(repositoryTable(r.Repositories))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	title := fmt.Sprintf("Sponsorable contributors (%d, by %s %s)", len(r.Contributors), r.Sort.Field, r.Sort.Order)
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n")
	if len(r.Contributors) == 0 {
		b.WriteString(styleDim.Render("  no contributor has a GitHub Sponsors listing"))
		b.WriteString("\n")
	} else {
		b.WriteString(contributorTable(r))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render(summaryLine(r.Stats)))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func repositoryTable(repos []Repository) string {
	rows := make([][]string, 0, len(repos))
	for _, repo := range repos {
		rows = append(rows, []string{
			strconv.Itoa(repo.Depth),
			repo.Package,
			repo.Repository,
			strings.Join(repo.Links, "\n"),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Depth", "Crate", "Repository", "Funding").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case col == 0:
				return styleNumber
			case col == 3:
				return styleLink
			default:
				return styleCell
			}
		}).
		String()
}

func contributorTable(r *Report) string {
	rows := make([][]string, 0, len(r.Contributors))
	for i, c := range r.Contributors {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Login,
			strconv.Itoa(c.Contributions),
			strconv.Itoa(c.Sponsors),
			strconv.Itoa(c.Crates),
			SponsorsURL(c.Login),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Login", "Contributions", "Sponsors", "Crates", "Sponsor page").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case col == 1:
				return styleCell
			case col == 5:
				return styleLink
			default:
				return styleNumber
			}
		}).
		String()
}

func summaryLine(s Stats) string {
	line := fmt.Sprintf("%d crates crawled, %d on GitHub, %d resolved", s.Crawled, s.Hosted, s.Resolved)
	if n := len(s.Failed); n > 0 {
		line += fmt.Sprintf(", %d not fetched", n)
	}
	if n := len(s.Skipped); n > 0 {
		line += fmt.Sprintf(", %d skipped", n)
	}
	return line
}
