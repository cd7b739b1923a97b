package scheduler

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"BitcoinClicker/internal/economy"
	"BitcoinClicker/internal/notifier"
)

const helpText = `Available commands:
/status - balances, production and market
/mine - get a hash challenge, then /answer N
/sell - sell all bitcoin
/shop - items you can buy
/buy hw|gen|up ID - buy hardware, a generator or an upgrade
/research ID - buy a research node with hash points
/prestige [confirm] - preview or perform a prestige
/version_prestige - claim the new version bonus
/loans - outstanding loans
/loan AMOUNT - borrow money
/pay ID AMOUNT - repay a loan
/autopay on|off [PERCENT] - automatic loan payments
/market [ID] - black market offer, or buy an item
/stats - recorded history
/save - save now`

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(chatID, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i] // "/status@SomeBot"
	}
	args := fields[1:]
	m := s.Economy

	switch name {
	case "/start", "/status":
		return notifier.FormatStatus(m.State(), m.Production(), m.Now())

	case "/mine", "/click":
		ch := s.Challenger.Issue(chatID)
		return ch.Question() + "\nReply with /answer N"

	case "/answer":
		if len(args) != 1 {
			return "Usage: /answer N"
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "Usage: /answer N"
		}
		attempt := s.Challenger.Attempt(chatID, n)
		power, err := m.Click(attempt)
		if err != nil {
			if attempt.Err() != nil {
				return "❌ " + attempt.Err().Error()
			}
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("✅ Hash solved! +%.0f hashes", power)

	case "/sell":
		btc, usd, err := m.SellBitcoin()
		if err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("Sold %s for %s", notifier.FormatBTC(btc), notifier.FormatMoney(usd))

	case "/shop":
		return notifier.FormatOffers(m.Offers())

	case "/buy":
		if len(args) != 2 {
			return "Usage: /buy hw|gen|up ID"
		}
		var err error
		switch args[0] {
		case "hw", "hardware":
			err = m.BuyHardware(args[1])
		case "gen", "generator":
			err = m.BuyGenerator(args[1])
		case "up", "upgrade":
			err = m.BuyUpgrade(args[1])
		default:
			return "Usage: /buy hw|gen|up ID"
		}
		return purchaseReply(args[1], err)

	case "/research":
		if len(args) != 1 {
			return "Usage: /research ID"
		}
		return purchaseReply(args[0], m.BuyResearch(args[0]))

	case "/prestige":
		if len(args) == 1 && args[0] == "confirm" {
			gain, err := m.Prestige()
			if err != nil {
				return "❌ " + err.Error()
			}
			return fmt.Sprintf("🔁 Prestiged for %d hash point(s).", gain)
		}
		gain, ok := m.PrestigePreview()
		return notifier.FormatPrestige(gain, ok, m.VersionPrestigeAvailable())

	case "/version_prestige":
		gain, err := m.VersionPrestige()
		if err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("🆕 Version %s prestige: +%d hash point(s). Fresh start!", m.Version(), gain)

	case "/loans":
		st := m.State()
		return notifier.FormatLoans(st.Loans, st.AutopayEnabled, st.AutopayPercentage)

	case "/loan":
		if len(args) != 1 {
			return "Usage: /loan AMOUNT"
		}
		amount, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return "Usage: /loan AMOUNT"
		}
		loan, err := m.TakeLoan(amount)
		if err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("Loan <code>%s</code>: received %s, owe %s",
			loan.ID[:8], notifier.FormatMoney(loan.Principal), notifier.FormatMoney(loan.Remaining))

	case "/pay":
		if len(args) != 2 {
			return "Usage: /pay ID AMOUNT"
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return "Usage: /pay ID AMOUNT"
		}
		paid, err := m.PayLoan(args[0], amount)
		if err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("Paid %s. Remaining debt %s", notifier.FormatMoney(paid), notifier.FormatMoney(m.Debt()))

	case "/autopay":
		if len(args) == 0 || (args[0] != "on" && args[0] != "off") {
			return "Usage: /autopay on|off [PERCENT]"
		}
		pct := m.State().AutopayPercentage
		if len(args) == 2 {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return "Usage: /autopay on|off [PERCENT]"
			}
			pct = v
		}
		pct = m.SetAutopay(args[0] == "on", pct)
		if args[0] == "off" {
			return "Autopay disabled."
		}
		return fmt.Sprintf("Autopay enabled at %.0f%%.", pct)

	case "/market":
		if len(args) == 0 {
			return notifier.FormatBlackMarket(m.Shop())
		}
		outcome, err := m.BuyMarketItem(args[0])
		if err != nil {
			return "❌ " + err.Error()
		}
		return "🕶 " + outcome

	case "/stats":
		sum, err := s.Recorder.Summary()
		if err != nil {
			log.Printf("[ERROR] history summary: %v", err)
			return "History is unavailable right now."
		}
		return notifier.FormatSummary(sum)

	case "/save":
		if err := s.Save(); err != nil {
			log.Printf("[ERROR] manual save: %v", err)
			return "❌ Save failed."
		}
		return "💾 Saved."

	default:
		return helpText
	}
}

func purchaseReply(id string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("✅ Purchased %s", id)
	case errors.Is(err, economy.ErrMaxPurchases):
		return fmt.Sprintf("%s is maxed out.", id)
	default:
		return "❌ " + err.Error()
	}
}
