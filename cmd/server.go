package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OpenCatalogTeam/OpenCatalog/internal/bootstrap"
	"github.com/OpenCatalogTeam/OpenCatalog/internal/conf"
	"github.com/OpenCatalogTeam/OpenCatalog/pkg/utils"
	"github.com/spf13/cobra"
)

var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the catalog service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := conf.Init(); err != nil {
			utils.Log.Fatalf("failed to load config: %+v", err)
		}
		bootstrap.InitLog()

		d, err := bootstrap.InitDB(context.Background())
		if err != nil {
			utils.Log.Fatalf("failed to initialize database: %+v", err)
		}
		index, err := bootstrap.InitSearch()
		if err != nil {
			utils.Log.Fatalf("failed to initialize search engine: %+v", err)
		}
		schedulers := bootstrap.InitSchedulers(d, index)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		utils.Log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := schedulers.Shutdown(ctx); err != nil {
			utils.Log.Warnf("failed to stop schedulers cleanly: %+v", err)
		}
	},
}

func init() {
	RootCmd.AddCommand(ServerCmd)
}
