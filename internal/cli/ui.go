package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette, named by role. Seat colors match the SVG renderer's.
var (
	colorAccent  = lipgloss.Color("36")
	colorOK      = lipgloss.Color("35")
	colorWarn    = lipgloss.Color("220")
	colorFail    = lipgloss.Color("167")
	colorCommand = lipgloss.Color("75")
	colorText    = lipgloss.Color("255")
	colorMuted   = lipgloss.Color("245")
	colorFaint   = lipgloss.Color("240")
	colorSeat    = lipgloss.Color("252")
	colorTaken   = lipgloss.Color("178")
)

// Styles shared by commands and the editor.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
	StyleError     = lipgloss.NewStyle().Foreground(colorFail)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(keyWidth)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCommand)
)

const (
	iconError   = "✗"
	iconArrow   = "→"
	iconPublic  = "public"
	iconPrivate = "private"

	keyWidth = 12
)

// mark is the leading glyph of a status line.
type mark struct {
	icon  string
	style lipgloss.Style
	// body styles the message itself; nil leaves it plain.
	body *lipgloss.Style
}

var (
	markSuccess = mark{icon: "✓", style: StyleSuccess}
	markError   = mark{icon: iconError, style: StyleError}
	markWarning = mark{icon: "!", style: StyleWarning, body: &StyleWarning}
	markInfo    = mark{icon: "›", style: lipgloss.NewStyle().Foreground(colorMuted)}
)

func say(m mark, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if m.body != nil {
		msg = m.body.Render(msg)
	}
	fmt.Println(m.style.Render(m.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { say(markSuccess, format, args...) }
func printError(format string, args ...any)   { say(markError, format, args...) }
func printWarning(format string, args ...any) { say(markWarning, format, args...) }
func printInfo(format string, args ...any)    { say(markInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at a file that was written.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints dimmed facts on one indented line, separated by dots.
// A trailing styled tag, if any, is appended as is.
func printStats(tag string, facts ...string) {
	var b strings.Builder
	b.WriteString("  ")
	for i, f := range facts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(f))
	}
	if tag != "" {
		b.WriteString(StyleDim.Render(" · ") + tag)
	}
	fmt.Println(b.String())
}

func printSeatStats(seated, capacity, eligible int) {
	printStats("",
		fmt.Sprintf("%d/%d seats", seated, capacity),
		fmt.Sprintf("%d eligible guests", eligible))
}

func printLayoutStats(tables, seats int, public bool) {
	printStats(visibilityTag(public),
		fmt.Sprintf("%d tables", tables),
		fmt.Sprintf("%d seats", seats))
}

// visibilityTag renders "public" in green and "private" muted.
func visibilityTag(public bool) string {
	if public {
		return StyleSuccess.Render(iconPublic)
	}
	return lipgloss.NewStyle().Foreground(colorMuted).Render(iconPrivate)
}

// printTable prints rows under headers in a rounded box, or the empty note
// when there are no rows. The first column is dimmed as a row key.
func printTable(headers []string, rows [][]string, empty string) {
	if len(rows) == 0 {
		printInfo("%s", empty)
		return
	}
	header := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	key := lipgloss.NewStyle().Foreground(colorFaint)
	cell := lipgloss.NewStyle().Foreground(colorText)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return key
			default:
				return cell
			}
		})
	fmt.Println(t.Render())
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }
