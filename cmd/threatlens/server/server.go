package server

import (
	"fmt"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"threatlens/api/routes"
	"threatlens/internal/config"
	"threatlens/internal/dao"
	"threatlens/internal/database"
	"threatlens/internal/intel"
	"threatlens/internal/notification"
	"threatlens/internal/services"
)

type ServerOpts struct {
	Port int
	Ip   string
}

func NewServerCommand() *cobra.Command {
	serverConfig := &ServerOpts{}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the threatlens API server",
		Long:  `Start the threatlens server exposing the scan, intel and history APIs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}

			reputation := intel.NewReputationClient(cfg.ReputationBaseURL, cfg.ReputationAPIKey)

			scanOpts := []services.ScanOption{
				services.WithPollPolicy(services.PollPolicy{
					MaxAttempts: cfg.PollMaxAttempts,
					Delay:       cfg.PollDelay,
				}),
			}
			if cfg.DiscordToken != "" {
				alerts, err := notification.NewAlertClient(cfg.DiscordToken, cfg.DiscordChannelID)
				if err != nil {
					log.Warnf("Failed to initialize Discord alerts: %v", err)
				} else {
					defer alerts.Close()
					scanOpts = append(scanOpts, services.WithNotifier(alerts))
					log.Info("Discord verdict alerts enabled")
				}
			}

			scanService := services.NewScanService(dao.NewScanRecordDAO(db), reputation, scanOpts...)
			lookupService := services.NewLookupService(
				intel.NewBreachClient(cfg.BreachBaseURL, cfg.BreachAPIKey),
				intel.NewNewsClient(cfg.NewsBaseURL, cfg.NewsAPIKey),
				intel.NewSummarizerClient(cfg.SummarizerBaseURL, cfg.SummarizerAPIKey, cfg.SummarizerModel),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.DropDir != "" {
				watcher := services.NewHashWatcher(cfg.DropDir, cfg.DropScanOwner, scanService)
				go func() {
					if err := watcher.Run(ctx); err != nil {
						log.Errorf("Drop folder watcher stopped: %v", err)
					}
				}()
				log.Infof("Watching drop folder %s", cfg.DropDir)
			}

			router := routes.InitRouter(db, scanService, lookupService)
			return router.Run(fmt.Sprintf("%s:%d", serverConfig.Ip, serverConfig.Port))
		},
	}

	serverCmd.Flags().IntVarP(&serverConfig.Port, "port", "p", 8080, "Port to run the server on")
	serverCmd.Flags().StringVarP(&serverConfig.Ip, "ip", "i", "", "IP address to bind the server to")

	return serverCmd
}
