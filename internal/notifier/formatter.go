package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"BitcoinClicker/internal/economy"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
)

var severityIcon = map[model.Severity]string{
	model.SeverityInfo:    "ℹ️",
	model.SeveritySuccess: "✅",
	model.SeverityWarning: "⚠️",
	model.SeverityDanger:  "🚨",
	model.SeverityEvent:   "🎲",
}

// fixed renders v with the given decimals; decimal panics on NaN and Inf.
func fixed(v float64, places int32) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// FormatMoney renders a dollar amount with two decimals.
func FormatMoney(v float64) string {
	return "$" + fixed(v, 2)
}

// FormatBTC renders a bitcoin amount with satoshi precision.
func FormatBTC(v float64) string {
	return fixed(v, 8) + " BTC"
}

// FormatHashrate renders hashes per second with a metric suffix.
func FormatHashrate(v float64) string {
	units := []string{"H/s", "KH/s", "MH/s", "GH/s", "TH/s", "PH/s", "EH/s"}
	i := 0
	for v >= 1000 && i < len(units)-1 {
		v /= 1000
		i++
	}
	return fixed(v, 2) + " " + units[i]
}

// FormatNotification renders one economy notification.
func FormatNotification(n model.Notification) string {
	icon := severityIcon[n.Severity]
	if icon == "" {
		icon = severityIcon[model.SeverityInfo]
	}
	return fmt.Sprintf("%s <b>%s</b>\n%s", icon, html.EscapeString(n.Title), html.EscapeString(n.Message))
}

// FormatStatus renders balances, production and market for the status command.
func FormatStatus(st model.EconomyState, p model.Production, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⛏ <b>BitcoinClicker</b> | v%s\n\n", html.EscapeString(st.Version)))

	b.WriteString(fmt.Sprintf("Bitcoin: %s\n", FormatBTC(st.Bitcoin)))
	b.WriteString(fmt.Sprintf("Money: %s\n", FormatMoney(st.Money)))
	b.WriteString(fmt.Sprintf("Hash points: %d (+%.0f%%)\n", st.HashPoints, (p.HashPointBonus-1)*100))
	b.WriteString(fmt.Sprintf("Pending hashes: %.0f / %.0f\n\n", st.PendingHashes, p.HashesPerBTC))

	b.WriteString(fmt.Sprintf("Hashrate: %s (raw %s)\n", FormatHashrate(p.Hashrate), FormatHashrate(p.RawHashrate)))
	b.WriteString(fmt.Sprintf("Power: %.0f / %.0f W (%.0f%%)\n", p.PowerUsed, p.PowerCapacity, p.Efficiency*100))
	b.WriteString(fmt.Sprintf("Click power: %.0f | Auto clicks: %.1f/s\n", p.ClickPower, p.AutoClickRate))
	b.WriteString(fmt.Sprintf("BTC/s: %s\n\n", fixed(p.BTCPerSecond, 8)))

	b.WriteString(fmt.Sprintf("Market: %s (%s)\n", FormatMoney(st.MarketPrice), st.MarketTrend))
	if len(st.Loans) > 0 {
		debt := 0.0
		for _, l := range st.Loans {
			debt += l.Remaining
		}
		b.WriteString(fmt.Sprintf("Debt: %s across %d loan(s)\n", FormatMoney(debt), len(st.Loans)))
	}
	for _, buff := range st.ActiveBuffs {
		if !buff.ActiveAt(now) {
			continue
		}
		b.WriteString(fmt.Sprintf("Buff: %s x%.1f (%s left)\n",
			html.EscapeString(buff.Name), buff.Factor, buff.Remaining(now).Round(time.Second)))
	}
	return b.String()
}

// FormatOffers renders the shop grouped by item kind.
func FormatOffers(offers []economy.Offer) string {
	if len(offers) == 0 {
		return "Nothing for sale yet."
	}
	var b strings.Builder
	b.WriteString("🛒 <b>Shop</b>\n")
	kind := ""
	for _, o := range offers {
		if o.Kind != kind {
			kind = o.Kind
			b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", kind))
		}
		price := FormatMoney(o.Cost)
		if o.Currency == "hash_points" {
			price = fmt.Sprintf("%.0f HP", o.Cost)
		}
		mark := ""
		if !o.Affordable {
			mark = " 🔒"
		}
		b.WriteString(fmt.Sprintf("  %s <code>%s</code> %s (owned %d)%s\n",
			html.EscapeString(o.Name), o.ID, price, o.Owned, mark))
	}
	return b.String()
}

// FormatBlackMarket renders the current black market offer.
func FormatBlackMarket(items []model.MarketItemSpec) string {
	if len(items) == 0 {
		return "The black market is sold out. Come back after the next restock."
	}
	var b strings.Builder
	b.WriteString("🕶 <b>Black Market</b>\n\n")
	for _, it := range items {
		b.WriteString(fmt.Sprintf("<code>%s</code> %s %s\n  %s\n",
			it.ID, html.EscapeString(it.Name), FormatMoney(it.Cost), html.EscapeString(it.Description)))
	}
	return b.String()
}

// FormatLoans renders outstanding loans.
func FormatLoans(loans []model.Loan, autopay bool, pct float64) string {
	if len(loans) == 0 {
		return "No outstanding loans."
	}
	var b strings.Builder
	b.WriteString("💸 <b>Loans</b>\n\n")
	for _, l := range loans {
		b.WriteString(fmt.Sprintf("<code>%s</code> %s owed (principal %s, %.0f%%)\n",
			shortID(l.ID), FormatMoney(l.Remaining), FormatMoney(l.Principal), l.Rate*100))
	}
	state := "off"
	if autopay {
		state = fmt.Sprintf("%.0f%%", pct)
	}
	b.WriteString(fmt.Sprintf("\nAutopay: %s\n", state))
	return b.String()
}

// FormatPrestige renders the prestige preview.
func FormatPrestige(gain int64, ok bool, versionAvailable bool) string {
	var b strings.Builder
	if ok {
		b.WriteString(fmt.Sprintf("Prestige now for %d hash point(s). Send /prestige confirm.\n", gain))
	} else {
		b.WriteString("Mine at least 1 BTC this run to prestige.\n")
	}
	if versionAvailable {
		b.WriteString("A version prestige is available: /version_prestige\n")
	}
	return b.String()
}

// FormatOffline renders the catch-up report shown after a restart.
func FormatOffline(rep economy.OfflineReport) string {
	return fmt.Sprintf("🌙 <b>Offline for %s</b>\nMined %s over %d step(s)\nBonus: %s\nLoan interest periods: %d",
		rep.Elapsed.Round(time.Second), FormatBTC(rep.BTCEarned), rep.Iterations,
		FormatMoney(rep.MoneyBonus), rep.LoanIntervals)
}

// FormatSummary renders the recorded history totals.
func FormatSummary(s *recorder.Summary) string {
	var b strings.Builder
	b.WriteString("📒 <b>History</b>\n\n")
	b.WriteString(fmt.Sprintf("Purchases: %d\n", s.Purchases))
	b.WriteString(fmt.Sprintf("Prestiges: %d (%d HP earned)\n", s.Prestiges, s.TotalHPEarned))
	b.WriteString(fmt.Sprintf("Random events: %d\n", s.Events))
	b.WriteString(fmt.Sprintf("Loan movements: %d\n", s.LoanEvents))
	b.WriteString(fmt.Sprintf("Market samples: %d (peak %s)\n", s.Samples, FormatMoney(s.PeakPrice)))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
