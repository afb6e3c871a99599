package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"agentui/internal/session"
)

const (
	colorAccent = "33"
	colorMuted  = "240"
	colorDim    = "242"
	colorLabel  = "244"
)

// stylize applies a foreground color unless colors are disabled.
func stylize(text string, noColor bool, color string) string {
	if noColor || text == "" {
		return text
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// View renders the transcript, the live turn, the composer and the footer.
func (m Model) View() string {
	var b strings.Builder
	if transcript := renderTranscript(m.state, m.noColor); transcript != "" {
		b.WriteString(transcript)
		b.WriteString("\n")
	}
	if m.thinking {
		b.WriteString(renderLiveTurn(m))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(stylize("✗ "+m.errText, m.noColor, colorLabel))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(stylize("• "+m.notice, m.noColor, colorMuted))
		b.WriteString("\n")
	}
	b.WriteString(m.composer.View())
	b.WriteString("\n")
	b.WriteString(renderFooter(m))
	return b.String()
}

// renderTranscript renders all committed messages.
func renderTranscript(state session.State, noColor bool) string {
	lines := make([]string, 0, len(state.Messages)*2)
	for _, message := range state.Messages {
		if message.Hidden {
			continue
		}
		switch message.Speaker {
		case session.SpeakerUser:
			lines = append(lines, stylize("> "+message.Content, noColor, colorAccent))
		case session.SpeakerAgent:
			lines = append(lines, renderAgentMessage(message, noColor)...)
		case session.SpeakerSystem:
			lines = append(lines, stylize(severityGlyph(message.Severity)+" "+message.Content, noColor, colorMuted))
		}
	}
	return strings.Join(lines, "\n")
}

// renderAgentMessage renders reasoning, actions and the answer of one agent
// message. Reasoning shows only when the stream marked it visible.
func renderAgentMessage(message session.Message, noColor bool) []string {
	lines := make([]string, 0, 4)
	if message.ShowReasoning != nil && *message.ShowReasoning && message.Reasoning != "" {
		for _, line := range strings.Split(message.Reasoning, "\n") {
			lines = append(lines, stylize("  "+line, noColor, colorDim))
		}
	}
	for _, action := range message.Actions {
		lines = append(lines, stylize("  "+actionGlyph(action.Status)+" "+actionLabel(action), noColor, colorMuted))
	}
	if message.Content != "" {
		lines = append(lines, message.Content)
	} else if message.Status == session.MessagePending {
		lines = append(lines, stylize("…", noColor, colorMuted))
	}
	return lines
}

// renderLiveTurn shows the in-flight prompt, streamed reasoning and actions.
func renderLiveTurn(m Model) string {
	lines := []string{stylize("> "+m.pendingPrompt, m.noColor, colorAccent)}
	if m.liveReasoning != "" {
		for _, line := range strings.Split(m.liveReasoning, "\n") {
			lines = append(lines, stylize("  "+line, m.noColor, colorDim))
		}
	}
	for _, action := range m.liveActions {
		lines = append(lines, stylize("  "+actionGlyph(action.Status)+" "+actionLabel(action), m.noColor, colorMuted))
	}
	lines = append(lines, m.spin.View()+" thinking")
	return strings.Join(lines, "\n")
}

// renderFooter shows the active model and remaining context capacity.
func renderFooter(m Model) string {
	parts := []string{m.modelName()}
	if m.state.ContextPercent != nil {
		parts = append(parts, fmt.Sprintf("context left %d%%", *m.state.ContextPercent))
	}
	if m.state.Status == session.StatusError && m.state.Error != "" {
		parts = append(parts, "error: "+m.state.Error)
	}
	return stylize(strings.Join(parts, " | "), m.noColor, colorLabel)
}

// modelName prefers the model reported by the stream over the configured one.
func (m Model) modelName() string {
	if m.liveModel != "" {
		return m.liveModel
	}
	if m.controller != nil {
		return m.controller.runner.Model()
	}
	return "model"
}

func actionLabel(action session.MessageAction) string {
	if strings.TrimSpace(action.Detail) != "" {
		return action.Detail
	}
	return strings.ReplaceAll(action.Name, "_", " ")
}

func actionGlyph(status session.ActionStatus) string {
	switch status {
	case session.ActionSuccess:
		return "✓"
	case session.ActionError:
		return "✗"
	default:
		return "…"
	}
}

func severityGlyph(severity session.Severity) string {
	switch severity {
	case session.SeveritySuccess:
		return "✓"
	case session.SeverityWarning, session.SeverityError:
		return "!"
	default:
		return "•"
	}
}
