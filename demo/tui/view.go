package tui

import (
	"strings"

	"artexport/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎨 " + TextTitle))
	b.WriteString("\n")
	b.WriteString(TextInstructions)
	b.WriteString("\n\n")

	if m.Busy {
		b.WriteString(DisabledButtonStyle.Render(TextButtonBusy))
	} else {
		b.WriteString(ButtonStyle.Render(TextButtonIdle))
	}
	b.WriteString("\n\n")

	if m.ErrorMessage != "" {
		b.WriteString(CriticalStyle.Render(m.ErrorMessage))
		b.WriteString("\n\n")
	} else if !m.Busy && m.LastOutcome == types.OutcomeNavigated {
		b.WriteString(StatusStyle.Render("✅ Design enviado"))
		b.WriteString("\n\n")
	}

	if len(m.Logs) > 0 {
		for _, entry := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + entry.Timestamp.Format("15:04:05") + " " + entry.Message))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.Busy {
		b.WriteString(InfoStyle.Render(TextFooterBusy))
	} else {
		b.WriteString(InfoStyle.Render(TextFooterIdle))
	}

	return b.String()
}
