// lotesctl tareas de operación: migraciones, alta del primer admin, carga masiva de lotes
// y revisión de consistencia entre estados y asignaciones.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "lotesctl",
		Short:         "Herramientas de operación del CRM inmobiliario",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		createAdminCmd(),
		importLotesCmd(),
		checkStatusesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
