package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E7D32"))
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#81C784")).
			MarginTop(1)
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4CAF50")).
			Padding(0, 1)
	inactiveCardStyle = cardStyle.Copy().
				BorderForeground(lipgloss.Color("#757575"))
	metaStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	badgeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FFB300")).Padding(0, 1)
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB300"))
	placeholderStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9E9E9E"))
	linkStyle        = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#42A5F5"))
	promptStyle      = lipgloss.NewStyle().Bold(true)
	hintStyle        = lipgloss.NewStyle().Faint(true)
	alertStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCA28"))
	indexStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
)

// clean strips control characters from text that came from users or the
// backend so it cannot inject escape sequences into the terminal.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// orDash replaces empty text with a dash
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func renderSection(title string) string {
	return sectionStyle.Render("■ " + title)
}

func renderPlaceholder(text string) string {
	return placeholderStyle.Render(text)
}

func renderIndexed(i int, block string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, indexStyle.Render(fmt.Sprintf("%2d ", i+1)), block)
}

func renderChallengeCard(tx *Texts, i int, ch Challenge) string {
	status := tx.T("challenge.active")
	style := cardStyle
	if !ch.Active {
		status = tx.T("challenge.inactive")
		style = inactiveCardStyle
	}

	lines := []string{
		titleStyle.Render(clean(ch.Title)) + "  " + metaStyle.Render(status),
		clean(ch.Description),
		metaStyle.Render(tx.T("challenge.meta", ch.Points, clean(ch.CO2))),
	}
	if ch.CO2QuantityBased {
		lines = append(lines, badgeStyle.Render(tx.T("challenge.quantity_badge")))
	}
	return renderIndexed(i, style.Render(strings.Join(lines, "\n")))
}

func renderReportCard(tx *Texts, i int, r Report) string {
	username := "-"
	if r.Username != "" {
		username = "@" + clean(r.Username)
	}
	name := r.FirstName
	if name == "" {
		name = tx.T("report.no_name")
	}

	lines := []string{
		titleStyle.Render(clean(r.ChallengeTitle)) + "  " + metaStyle.Render(clean(r.SubmittedAt)),
		tx.T("report.user", clean(name), username),
		tx.T("report.comment", clean(orDash(r.Caption))),
	}
	if r.CO2QuantityBased {
		lines = append(lines, warningStyle.Render(tx.T("report.quantity_note")))
	}
	lines = append(lines, renderAttachment(tx, r))
	return renderIndexed(i, cardStyle.Render(strings.Join(lines, "\n")))
}

// renderAttachment shows a photo inline and any other file as a download link.
func renderAttachment(tx *Texts, r Report) string {
	if r.FileURL == "" {
		return tx.T("report.no_file")
	}
	if r.AttachmentType == attachmentPhoto {
		label := r.AttachmentName
		if label == "" {
			label = tx.T("report.photo")
		}
		return "🖼 " + clean(label) + ": " + linkStyle.Render(clean(r.FileURL))
	}
	label := r.AttachmentName
	if label == "" {
		label = tx.T("report.download")
	}
	return "📎 " + clean(label) + ": " + linkStyle.Render(clean(r.FileURL))
}

func renderLogEntry(tx *Texts, e LogEntry) string {
	admin := "?"
	if e.AdminID != nil {
		admin = fmt.Sprintf("%d", *e.AdminID)
	}
	line := fmt.Sprintf("%s - [%s] %s", promptStyle.Render(tx.Timestamp(e.CreatedAt)), admin, clean(e.Action))
	if e.Details != "" {
		line += " (" + clean(e.Details) + ")"
	}
	return "• " + line
}

func renderUserStats(tx *Texts, total, weekly string) string {
	return strings.Join([]string{
		tx.T("stats.total", total),
		tx.T("stats.weekly", weekly),
		metaStyle.Render(tx.T("stats.weekly_hint")),
	}, "\n")
}

func renderTemplates(templates []ChallengeTemplate) string {
	lines := make([]string, 0, len(templates))
	for _, t := range templates {
		lines = append(lines, fmt.Sprintf("%s %s", indexStyle.Render(fmt.Sprintf("%2d", t.ID)), t.Action))
	}
	return strings.Join(lines, "\n")
}
