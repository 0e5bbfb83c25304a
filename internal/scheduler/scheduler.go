package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"MarketAdvisor/internal/advisor"
	"MarketAdvisor/internal/collector"
	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/notifier"
	"MarketAdvisor/internal/store"
	"MarketAdvisor/internal/symbols"
)

const sendRetries = 3

// Scheduler manages the cron tasks and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Engine    *advisor.Engine
	Lister    store.Lister
	Collector *collector.Collector // nil disables the collect task
	Universe  symbols.Universe
	Notifier  notifier.Notifier
	Calendar  *TradingCalendar
	Watchlist []string
	Ctx       context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, engine *advisor.Engine, lister store.Lister, n notifier.Notifier, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Engine:    engine,
		Lister:    lister,
		Notifier:  n,
		Calendar:  NewTradingCalendar(),
		Watchlist: watchlist,
		Ctx:       ctx,
		now:       time.Now,
	}
}

// RegisterAll registers the digest task and, when a collector is set, the
// collect task.
func (s *Scheduler) RegisterAll(digestCron, collectCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	if s.Collector == nil {
		return nil
	}
	if _, err := s.Cron.AddFunc(collectCron, s.collectTask); err != nil {
		return fmt.Errorf("register collect task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	zap.L().Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	zap.L().Info("scheduler stopped")
}

// RunDigestNow executes the digest task immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

// activeWatchlist drops equities when NYSE does not trade today. Crypto
// trades every day.
func (s *Scheduler) activeWatchlist(now time.Time) []string {
	if s.Calendar == nil || s.Calendar.IsTradingDay(now) {
		return s.Watchlist
	}
	var out []string
	for _, sym := range s.Watchlist {
		if symbols.IsCrypto(sym) {
			out = append(out, sym)
		}
	}
	return out
}

// Digest analyzes the active watchlist. A symbol whose load faults is
// logged and left out.
func (s *Scheduler) Digest() (string, bool) {
	now := s.now()
	active := s.activeWatchlist(now)
	if len(active) == 0 {
		zap.L().Info("digest skipped, no active symbols", zap.Time("at", now))
		return "", false
	}
	outcomes := make([]model.Outcome, 0, len(active))
	for _, sym := range active {
		o, err := s.Engine.Analyze(sym, 0)
		if err != nil {
			zap.L().Error("digest analysis failed", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		outcomes = append(outcomes, o)
	}
	return notifier.FormatDigest(outcomes, now), true
}

func (s *Scheduler) digestTask() {
	zap.L().Info("running digest task")
	if text, ok := s.Digest(); ok {
		s.trySend(text)
	}
}

func (s *Scheduler) collectTask() {
	zap.L().Info("running collect task")
	report, err := s.Collector.Run(s.Ctx, s.Universe)
	if err != nil {
		zap.L().Error("collect task", zap.Error(err))
		s.trySend(fmt.Sprintf("❌ data collection failed: %s", notifier.EscapeHTML(err.Error())))
	}
	if report != nil && report.Written > 0 {
		s.Engine.Purge()
	}
	if report != nil && len(report.Failed) > 0 {
		failed := make([]string, 0, len(report.Failed))
		for ticker := range report.Failed {
			failed = append(failed, notifier.EscapeHTML(ticker))
		}
		s.trySend(fmt.Sprintf("⚠️ collection finished with %d failures: %s", len(failed), strings.Join(failed, ", ")))
	}
}

const helpText = "Available commands:\n" +
	"/analyze SYMBOL [DAYS] - full technical analysis\n" +
	"/insight SYMBOL [should_i_buy|trend_analysis|risk_assessment|price_analysis]\n" +
	"/symbols - list stored symbols\n" +
	"/digest - watchlist digest now\n" +
	"/help - this message"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// "/analyze@MyBot AAPL" in group chats
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/analyze":
		if len(args) == 0 {
			return "usage: /analyze SYMBOL [DAYS]"
		}
		days := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return "DAYS must be a positive integer"
			}
			days = n
		}
		o, err := s.Engine.Analyze(args[0], days)
		if err != nil {
			zap.L().Error("analyze command", zap.String("symbol", args[0]), zap.Error(err))
			return "❌ could not read market data, try again later"
		}
		return notifier.EscapeHTML(notifier.FormatReport(o))
	case "/insight":
		if len(args) == 0 {
			return "usage: /insight SYMBOL [INTENT]"
		}
		intent := string(model.IntentGeneral)
		if len(args) > 1 {
			intent = args[1]
		}
		text, err := s.Engine.Insight(args[0], intent)
		if err != nil {
			zap.L().Error("insight command", zap.String("symbol", args[0]), zap.Error(err))
			return "❌ could not read market data, try again later"
		}
		return notifier.EscapeHTML(text)
	case "/symbols":
		refs, err := s.Lister.Symbols()
		if err != nil {
			zap.L().Error("symbols command", zap.Error(err))
			return "❌ could not list symbols"
		}
		return notifier.FormatSymbols(refs)
	case "/digest":
		if text, ok := s.Digest(); ok {
			return text
		}
		return "Nothing to report: markets are closed and the watchlist has no crypto."
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		zap.L().Error("send notification", zap.Error(err))
	}
}
