package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseFormatting maps a config value onto a Formatting, defaulting to plain.
func ParseFormatting(s string) Formatting {
	switch Formatting(strings.ToLower(s)) {
	case FormatHTML:
		return FormatHTML
	case FormatMarkdown:
		return FormatMarkdown
	default:
		return FormatPlain
	}
}

func escape(f Formatting, s string) string {
	if mode := parseMode(f); mode != "" {
		return tgbotapi.EscapeText(mode, s)
	}
	return s
}

func bold(f Formatting, s string) string {
	switch f {
	case FormatHTML:
		return "<b>" + s + "</b>"
	case FormatMarkdown:
		return "*" + s + "*"
	default:
		return s
	}
}

// FormatAlert renders the over-limit notification. at is the evaluation time,
// not the time of the reading.
func FormatAlert(f Formatting, deviceName string, energy, limit float64, at time.Time) string {
	var b strings.Builder
	b.WriteString("⚠️ " + bold(f, "Energy limit exceeded") + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", bold(f, "Device:"), escape(f, deviceName))
	fmt.Fprintf(&b, "%s %.2f kWh\n", bold(f, "Current energy:"), energy)
	fmt.Fprintf(&b, "%s %.2f kWh\n", bold(f, "Limit:"), limit)
	fmt.Fprintf(&b, "%s %.2f kWh\n\n", bold(f, "Over by:"), energy-limit)
	fmt.Fprintf(&b, "Checked at %s UTC", at.UTC().Format("2006-01-02 15:04:05"))
	return b.String()
}
