package main

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"threatlens/cmd/threatlens/server"
)

func Execute() error {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "threatlens",
		Short: "A threat-analysis service for URLs, files and domains",
		Long:  `Threatlens submits URLs and file hashes to external reputation services, aggregates breach and news intelligence, and keeps a per-user scan history`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.AddCommand(server.NewServerCommand())

	return rootCmd.ExecuteContext(context.Background())
}
