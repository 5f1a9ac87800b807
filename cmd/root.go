package cmd

import (
	"github.com/OpenCatalogTeam/OpenCatalog/pkg/utils"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "opencatalog",
	Short: "A file and collection catalog whose search index keeps itself consistent in the background",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		utils.Log.Fatalf("failed to execute command: %+v", err)
	}
}
