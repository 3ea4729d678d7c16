package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	separator     = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	createdLayout = "2006-01-02 15:04"

	labelBonded    = "✅ Bonded"
	labelNotBonded = "⏳ Not bonded"
)

// Format renders r as the reply text. Counts and the quote market cap use
// thousands separators.
func Format(r *DerivedReport) string {
	p := message.NewPrinter(language.English)

	status := labelNotBonded
	if r.Bonded {
		status = labelBonded
	}

	var sb strings.Builder
	sb.WriteString("🔍 Token Info\n")
	sb.WriteString(separator + "\n")

	sb.WriteString("📝 Basic Info\n")
	fmt.Fprintf(&sb, "• Name: %s (%s)\n", r.Name, r.Ticker)
	fmt.Fprintf(&sb, "• Status: %s\n", status)
	fmt.Fprintf(&sb, "• Created: %s\n", r.CreatedAt.Format(createdLayout))
	fmt.Fprintf(&sb, "• Running: %d day(s) %d hour(s)\n", r.RunningDays, r.RunningHours)
	sb.WriteString(p.Sprintf("• Holders: %d\n", r.Holders))
	fmt.Fprintf(&sb, "• Dev🥷 share: %.2f%%\n\n", r.DevPercent)

	sb.WriteString("💰 Price\n")
	fmt.Fprintf(&sb, "• Price: %.2f sats ($%.4f)\n", r.PriceSats, r.PriceQuote)
	sb.WriteString(p.Sprintf("• Market cap: $%.2f\n\n", r.MarketCapQuote))

	sb.WriteString("📊 Trades\n")
	sb.WriteString(p.Sprintf("• Buys🟢: %d\n", r.Buys))
	sb.WriteString(p.Sprintf("• Sells🔴: %d\n\n", r.Sells))

	sb.WriteString("📈 Price Change\n")
	fmt.Fprintf(&sb, "• 5m: %+.2f%%\n", r.Change5m)
	fmt.Fprintf(&sb, "• 1h: %+.2f%%\n", r.Change1h)
	fmt.Fprintf(&sb, "• 6h: %+.2f%%\n", r.Change6h)
	fmt.Fprintf(&sb, "• 24h: %+.2f%%", r.Change1d)

	if r.Twitter != "" || r.Telegram != "" || r.Website != "" {
		sb.WriteString("\n\n🔗 Links")
		if r.Twitter != "" {
			sb.WriteString("\n• Twitter: " + r.Twitter)
		}
		if r.Telegram != "" {
			sb.WriteString("\n• Telegram: " + r.Telegram)
		}
		if r.Website != "" {
			sb.WriteString("\n• Website: " + r.Website)
		}
	}

	return sb.String()
}
