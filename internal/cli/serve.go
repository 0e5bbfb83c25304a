package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MarketAdvisor/internal/collector"
	"MarketAdvisor/internal/notifier"
	"MarketAdvisor/internal/scheduler"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot with the digest and collect schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if err := cfg.ValidateServe(); err != nil {
				return err
			}
			runNow, _ := cmd.Flags().GetBool("run-now")
			noCollect, _ := cmd.Flags().GetBool("no-collect")

			ctx, cancel := signalContext()
			defer cancel()

			tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			sched := scheduler.NewScheduler(ctx, app.Engine, app.Store, tn, cfg.Watchlist.Symbols)
			if !noCollect {
				sched.Collector = collector.NewCollector(collector.NewYahooFetcher(cfg.Proxy), app.Store, cfg.Collector.Days)
				u, err := watchlistUniverse(app.Store, cfg.Watchlist.Symbols)
				if err != nil {
					return err
				}
				sched.Universe = u
			}
			if err := sched.RegisterAll(cfg.Schedule.DigestCron, cfg.Schedule.CollectCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			zap.L().Info("advisor is running",
				zap.Strings("watchlist", cfg.Watchlist.Symbols),
				zap.String("digest_cron", cfg.Schedule.DigestCron))

			if runNow {
				go sched.RunDigestNow()
			}

			<-ctx.Done()
			zap.L().Info("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().Bool("run-now", false, "post a digest immediately after start")
	cmd.Flags().Bool("no-collect", false, "do not refresh the store on the collect schedule")
	return cmd
}
