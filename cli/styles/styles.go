// Package styles provides consistent terminal styling for the poke CLI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// Color palette
var (
	Primary      = lipgloss.Color("#EF4444") // Pokédex red
	PrimaryLight = lipgloss.Color("#F87171")
	Secondary    = lipgloss.Color("#FACC15") // Pikachu yellow

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
	Info    = lipgloss.Color("#3B82F6")

	Text      = lipgloss.Color("#F9FAFB")
	TextMuted = lipgloss.Color("#9CA3AF")
	Border    = lipgloss.Color("#374151")
)

// elementColors follow the in-game type colors.
var elementColors = map[pokemon.Element]lipgloss.Color{
	pokemon.ElementNormal:   "#A8A77A",
	pokemon.ElementFighting: "#C22E28",
	pokemon.ElementFlying:   "#A98FF3",
	pokemon.ElementPoison:   "#A33EA1",
	pokemon.ElementGround:   "#E2BF65",
	pokemon.ElementRock:     "#B6A136",
	pokemon.ElementBug:      "#A6B91A",
	pokemon.ElementGhost:    "#735797",
	pokemon.ElementSteel:    "#B7B7CE",
	pokemon.ElementFire:     "#EE8130",
	pokemon.ElementWater:    "#6390F0",
	pokemon.ElementGrass:    "#7AC74C",
	pokemon.ElementElectric: "#F7D02C",
	pokemon.ElementPsychic:  "#F95587",
	pokemon.ElementIce:      "#96D9D6",
	pokemon.ElementDragon:   "#6F35FC",
	pokemon.ElementDark:     "#705746",
	pokemon.ElementFairy:    "#D685AD",
}

var colorsDisabled bool

// Text styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Normal = lipgloss.NewStyle().Foreground(Text)

	Muted = lipgloss.NewStyle().Foreground(TextMuted)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
)

// Icons
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconArrow   = "→"
	IconBall    = "◓"
)

// Box is a rounded container.
var Box = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// FormatSuccess formats a success message with icon
func FormatSuccess(msg string) string {
	return SuccessStyle.Render(IconSuccess) + " " + Normal.Render(msg)
}

// FormatError formats an error message with icon
func FormatError(msg string) string {
	return ErrorStyle.Render(IconError) + " " + Normal.Render(msg)
}

// FormatWarning formats a warning message with icon
func FormatWarning(msg string) string {
	return WarningStyle.Render(IconWarning) + " " + Normal.Render(msg)
}

// FormatInfo formats an info message with icon
func FormatInfo(msg string) string {
	return InfoStyle.Render(IconInfo) + " " + Normal.Render(msg)
}

// FormatKeyValue formats a key-value pair
func FormatKeyValue(key, value string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(TextMuted).
		Width(18)
	return keyStyle.Render(key+":") + " " + Highlight.Render(value)
}

// ElementColor returns the display color of e.
func ElementColor(e pokemon.Element) lipgloss.Color {
	if colorsDisabled {
		return lipgloss.Color("")
	}
	if c, ok := elementColors[e]; ok {
		return c
	}
	return TextMuted
}

// FormatType renders each element of t as a colored badge.
func FormatType(t pokemon.Type) string {
	badges := make([]string, 0, 2)
	for _, e := range t.Elements() {
		badge := lipgloss.NewStyle().
			Bold(true).
			Foreground(ElementColor(e)).
			Render(strings.ToUpper(string(e)))
		badges = append(badges, badge)
	}
	return strings.Join(badges, " / ")
}

// DisableColors disables all colors for terminals that don't support them
func DisableColors() {
	colorsDisabled = true
	Primary = lipgloss.Color("")
	PrimaryLight = lipgloss.Color("")
	Secondary = lipgloss.Color("")
	Success = lipgloss.Color("")
	Warning = lipgloss.Color("")
	Error = lipgloss.Color("")
	Info = lipgloss.Color("")
	Text = lipgloss.Color("")
	TextMuted = lipgloss.Color("")
	Border = lipgloss.Color("")
}
