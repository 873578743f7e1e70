package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/fundamental/pkg/funding"
	"github.com/matzehuels/fundamental/pkg/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// browseView selects which listing the browser shows.
type browseView int

const (
	viewContributors browseView = iota
	viewRepositories
)

// =============================================================================
// BrowseModel - Interactive report browser
// =============================================================================

// BrowseModel is the bubbletea model for browsing a scan report. Tab switches
// between contributors and repositories; s and o change the contributor
// ranking in place.
type BrowseModel struct {
	Report       *report.Report
	Contributors []funding.Contributor
	Sort         report.SortOptions
	Tab          browseView
	Cursor       int
	Offset       int
	Height       int
}

// NewBrowseModel creates a browser over r.
func NewBrowseModel(r *report.Report) BrowseModel {
	return BrowseModel{
		Report:       r,
		Contributors: r.Contributors,
		Sort:         r.Sort,
		Height:       15,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) rows() int {
	if m.Tab == viewRepositories {
		return len(m.Report.Repositories)
	}
	return len(m.Contributors)
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.Tab == viewContributors {
				m.Tab = viewRepositories
			} else {
				m.Tab = viewContributors
			}
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rows()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "s":
			if m.Sort.Field == report.SortContributions {
				m.Sort.Field = report.SortSponsors
			} else {
				m.Sort.Field = report.SortContributions
			}
			m.Sort.Order = m.Sort.Field.DefaultOrder()
			m.rerank()
		case "o":
			if m.Sort.Order == report.Ascending {
				m.Sort.Order = report.Descending
			} else {
				m.Sort.Order = report.Ascending
			}
			m.rerank()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *BrowseModel) rerank() {
	m.Contributors = report.RankContributors(m.Contributors, m.Sort)
	m.Cursor, m.Offset = 0, 0
}

func (m BrowseModel) View() string {
	var b strings.Builder

	if m.Tab == viewRepositories {
		b.WriteString(StyleTitle.Render(fmt.Sprintf("Fundable repositories (%d)", len(m.Report.Repositories))))
	} else {
		b.WriteString(StyleTitle.Render(fmt.Sprintf("Sponsorable contributors (%d, by %s %s)",
			len(m.Contributors), m.Sort.Field, m.Sort.Order)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab switch  s sort field  o order  q quit"))
	b.WriteString("\n\n")

	if m.rows() == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, m.rows())
	var headers []string
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		if m.Tab == viewRepositories {
			r := m.Report.Repositories[i]
			rows = append(rows, []string{cursor, r.Package, strconv.Itoa(r.Depth), r.Links[0]})
		} else {
			c := m.Contributors[i]
			rows = append(rows, []string{cursor, c.Login, strconv.Itoa(c.Contributions), strconv.Itoa(c.Sponsors), strconv.Itoa(c.Crates)})
		}
	}
	if m.Tab == viewRepositories {
		headers = []string{"", "Crate", "Depth", "Funding"}
	} else {
		headers = []string{"", "Login", "Contributions", "Sponsors", "Crates"}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  " + m.detail()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.rows())))

	return b.String()
}

// detail describes the row under the cursor.
func (m BrowseModel) detail() string {
	if m.Tab == viewRepositories {
		r := m.Report.Repositories[m.Cursor]
		return r.Repository + "  " + strings.Join(r.Links, " ")
	}
	return report.SponsorsURL(m.Contributors[m.Cursor].Login)
}

// browse runs the interactive browser until the user quits.
func browse(r *report.Report) error {
	_, err := tea.NewProgram(NewBrowseModel(r)).Run()
	return err
}
