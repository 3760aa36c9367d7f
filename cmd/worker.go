package cmd

import (
	"github.com/emrgen/page/internal/config"
	"github.com/emrgen/page/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func workerCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "worker",
		Short: "run the background jobs: version pruning and search sync",
		Run: func(cmd *cobra.Command, args []string) {
			if err := server.Start(config.LoadConfig()); err != nil {
				logrus.Fatalf("error running worker: %v", err)
			}
		},
	}

	return command
}
