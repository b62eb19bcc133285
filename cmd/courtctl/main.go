package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "courtctl",
		Usage: "Batch tooling for the NyayaMitra case database",
		Commands: []*cli.Command{
			// Schema
			newCreateSchemaCommand(),
			newResetCommand(),

			// Imports
			newImportCommand("import-final", "Import the final case register", "final_records", importFinal),
			newImportCommand("import-cases", "Import the raw cases sheet", "cases", importCases),
			newImportCommand("import-hearings", "Import the hearing history sheet", "hearings", importHearings),
			newStageFileCommand(),

			// Analytics
			newBuildAnalyticsCommand(),

			// Admin
			newHashAdminKeyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
