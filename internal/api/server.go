package api

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"BitcoinClicker/internal/economy"
	"BitcoinClicker/internal/model"
	"BitcoinClicker/internal/recorder"
	"BitcoinClicker/internal/verify"
)

// Server exposes the economy over HTTP. It has no authentication and is meant
// for a single local player on a loopback address.
type Server struct {
	economy    *economy.Manager
	challenger *verify.Challenger
	recorder   recorder.Recorder
	logger     *log.Logger
}

// NewServer creates a new API server.
func NewServer(m *economy.Manager, ch *verify.Challenger, rec recorder.Recorder) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Server{
		economy:    m,
		challenger: ch,
		recorder:   rec,
		logger:     log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile),
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.economy.Version()})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/production", s.handleProduction)
		r.Get("/offers", s.handleOffers)
		r.Get("/shop", s.handleShop)
		r.Get("/loans", s.handleLoans)
		r.Get("/history", s.handleHistory)

		r.Post("/challenge", s.handleChallenge)
		r.Post("/click", s.handleClick)
		r.Post("/sell", s.handleSell)
		r.Post("/buy/{kind}/{id}", s.handleBuy)
		r.Post("/research/{id}", s.handleResearch)
		r.Post("/prestige", s.handlePrestige)
		r.Post("/prestige/version", s.handleVersionPrestige)
		r.Post("/loans", s.handleTakeLoan)
		r.Post("/loans/{id}/pay", s.handlePayLoan)
		r.Post("/autopay", s.handleAutopay)
		r.Post("/blackmarket/{id}", s.handleBlackMarket)
	})
	return r
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.economy.State())
}

func (s *Server) handleProduction(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.economy.Production())
}

func (s *Server) handleOffers(w http.ResponseWriter, r *http.Request) {
	offers := s.economy.Offers()
	if offers == nil {
		offers = []economy.Offer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

type marketItem struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Cost        float64            `json:"cost"`
	Action      model.MarketAction `json:"action"`
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	items := s.economy.Shop()
	out := make([]marketItem, 0, len(items))
	for _, it := range items {
		out = append(out, marketItem{ID: it.ID, Name: it.Name, Description: it.Description, Cost: it.Cost, Action: it.Action})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLoans(w http.ResponseWriter, r *http.Request) {
	st := s.economy.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"loans":              st.Loans,
		"debt":               s.economy.Debt(),
		"autopay_enabled":    st.AutopayEnabled,
		"autopay_percentage": st.AutopayPercentage,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sum, err := s.recorder.Summary()
	if err != nil {
		s.logger.Printf("[ERROR] history summary: %v", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	ch := s.challenger.Issue(player(r))
	writeJSON(w, http.StatusOK, map[string]string{"question": ch.Question()})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer int `json:"answer"`
	}
	if !decode(w, r, &req) {
		return
	}
	attempt := s.challenger.Attempt(player(r), req.Answer)
	power, err := s.economy.Click(attempt)
	if err != nil {
		if attempt.Err() != nil {
			err = attempt.Err()
		}
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"hashes": power})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	btc, usd, err := s.economy.SellBitcoin()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"btc": btc, "usd": usd})
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var err error
	switch chi.URLParam(r, "kind") {
	case economy.KindHardware:
		err = s.economy.BuyHardware(id)
	case economy.KindGenerator:
		err = s.economy.BuyGenerator(id)
	case economy.KindUpgrade:
		err = s.economy.BuyUpgrade(id)
	default:
		writeError(w, http.StatusNotFound, "unknown item kind")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.economy.State())
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	if err := s.economy.BuyResearch(chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.economy.State())
}

func (s *Server) handlePrestige(w http.ResponseWriter, r *http.Request) {
	gain, err := s.economy.Prestige()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"hash_points_gained": gain})
}

func (s *Server) handleVersionPrestige(w http.ResponseWriter, r *http.Request) {
	gain, err := s.economy.VersionPrestige()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"hash_points_gained": gain})
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	loan, err := s.economy.TakeLoan(req.Amount)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

func (s *Server) handlePayLoan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	paid, err := s.economy.PayLoan(chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"paid": paid, "debt": s.economy.Debt()})
}

func (s *Server) handleAutopay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled    bool     `json:"enabled"`
		Percentage *float64 `json:"percentage"`
	}
	if !decode(w, r, &req) {
		return
	}
	pct := s.economy.State().AutopayPercentage
	if req.Percentage != nil {
		pct = *req.Percentage
	}
	pct = s.economy.SetAutopay(req.Enabled, pct)
	writeJSON(w, http.StatusOK, map[string]any{"enabled": req.Enabled, "percentage": pct})
}

func (s *Server) handleBlackMarket(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.economy.BuyMarketItem(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": outcome})
}

// fail maps a rejection to its HTTP status.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, economy.ErrUnknownItem), errors.Is(err, economy.ErrUnknownLoan):
		status = http.StatusNotFound
	case errors.Is(err, economy.ErrInvalidAmount), errors.Is(err, economy.ErrLoanTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, economy.ErrLocked), errors.Is(err, economy.ErrPrerequisites),
		errors.Is(err, economy.ErrAlreadyOwned), errors.Is(err, economy.ErrMaxPurchases),
		errors.Is(err, economy.ErrAlreadyPrestiged), errors.Is(err, economy.ErrNotInShop):
		status = http.StatusConflict
	case errors.Is(err, economy.ErrInsufficientFunds), errors.Is(err, economy.ErrNothingToSell),
		errors.Is(err, economy.ErrNoPrestigeGain):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, verify.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, economy.ErrVerificationFailed), errors.Is(err, verify.ErrWrongAnswer),
		errors.Is(err, verify.ErrNoChallenge), errors.Is(err, verify.ErrExpired):
		status = http.StatusForbidden
	default:
		s.logger.Printf("[ERROR] unexpected failure: %v", err)
	}
	writeError(w, status, err.Error())
}

// Loopback reports whether addr only accepts connections from this host.
func Loopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// player keys verification challenges by client address.
func player(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
