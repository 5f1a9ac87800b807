package main

import (
	"github.com/OpenCatalogTeam/OpenCatalog/cmd"
)

func main() {
	cmd.Execute()
}
