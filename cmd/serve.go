package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IshwariGadewar/SmartBasket/internal/server"
	"github.com/IshwariGadewar/SmartBasket/internal/utils"
	"github.com/IshwariGadewar/SmartBasket/pkg/alerts"
	"github.com/IshwariGadewar/SmartBasket/pkg/notify"
	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic alert engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		sweepMinutes, _ := cmd.Flags().GetInt("sweep-interval")
		pruneDays, _ := cmd.Flags().GetInt("prune-days")

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		engine := &alerts.Engine{
			DB:       db,
			Notifier: buildNotifier(),
			Interval: time.Duration(sweepMinutes) * time.Minute,
			Log:      utils.Log,
		}
		go engine.Run(ctx)

		if pruneDays > 0 {
			go runPruner(ctx, db, time.Duration(pruneDays)*24*time.Hour)
		}

		srv := server.New(db, newSearchService(db), newAIClient(),
			viper.GetString("server.username"), viper.GetString("server.password"))
		return srv.Start(listenAddr)
	},
}

// buildNotifier prefers Telegram when configured, else logs intent only.
func buildNotifier() notify.Notifier {
	token := viper.GetString("telegram.token")
	chatID := viper.GetInt64("telegram.chat_id")
	if token != "" && chatID != 0 {
		tg, err := notify.NewTelegramNotifier(token, chatID)
		if err != nil {
			utils.Log.Warnf("Telegram notifier disabled: %v", err)
		} else {
			return tg
		}
	}
	return &notify.LogNotifier{Infof: utils.Log.Infof}
}

// runPruner drops products whose last capture is older than maxAge, daily.
func runPruner(ctx context.Context, db *storage.DB, maxAge time.Duration) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.PruneStale(ctx, maxAge)
			if err != nil {
				utils.Log.Warnf("pruning stale products failed: %v", err)
				continue
			}
			if n > 0 {
				utils.Log.Infof("pruned %d stale products", n)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Int("sweep-interval", 60, "Minutes between alert sweeps")
	serveCmd.Flags().Int("prune-days", 30, "Drop products not seen for this many days (0 to disable)")
}
