package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/bootstrap"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-inmobiliario/pkg/config"
	"github.com/jhoicas/crm-inmobiliario/pkg/logger"
)

// systemActor actor con permisos de administración para tareas de consola.
var systemActor = access.NewActor("lotesctl", entity.RoleAdmin, nil)

func openBackend(cmd *cobra.Command) (*bootstrap.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if s, _ := cmd.Flags().GetString("store"); s != "" {
		cfg.App.StoreDriver = s
	}
	// el CLI no publica eventos ni expone métricas
	cfg.AMQP.URL = ""
	cfg.Metrics.Enabled = false
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "lotesctl", Output: os.Stderr})
	return bootstrap.Open(cmd.Context(), cfg, log)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()
			if b.Pool == nil {
				return errors.New("migrate requiere STORE_DRIVER=postgres")
			}
			applied, err := postgres.Migrate(cmd.Context(), b.Pool)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones pendientes")
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "aplicada %s\n", name)
			}
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var in dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un usuario ADMIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("ADMIN_PASSWORD")
			}
			in.Role = string(entity.RoleAdmin)
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()
			u, err := b.Users.Create(cmd.Context(), systemActor, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s creado (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "admin", "nombre de usuario")
	cmd.Flags().StringVar(&in.Email, "email", "", "correo")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (o ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&in.Nombre, "nombre", "Administrador", "nombre")
	cmd.Flags().StringVar(&in.ApellidoPaterno, "apellido-paterno", "Sistema", "apellido paterno")
	cmd.Flags().StringVar(&in.ApellidoMaterno, "apellido-materno", "", "apellido materno")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func importLotesCmd() *cobra.Command {
	var paqueteID, encoding string
	cmd := &cobra.Command{
		Use:   "import-lotes <archivo.csv>",
		Short: "Carga lotes de un CSV en un paquete; todos entran como LIBRE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r, err := decodeCSV(f, encoding)
			if err != nil {
				return err
			}
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()
			res, err := b.Catalog.ImportLotes(cmd.Context(), systemActor, paqueteID, r)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "creados: %d, con error: %d\n", res.Created, res.Failed)
			for _, e := range res.Errors {
				fmt.Fprintln(out, "  "+e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&paqueteID, "paquete", "", "ID del paquete destino")
	cmd.Flags().StringVar(&encoding, "encoding", "utf8", "codificación del archivo: utf8 | latin1")
	_ = cmd.MarkFlagRequired("paquete")
	return cmd
}

// decodeCSV los CSV exportados desde Excel en Windows suelen venir en ISO-8859-1.
func decodeCSV(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
		return r, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("encoding %q no soportado", encoding)
}

func checkStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-statuses",
		Short: "Reporta lotes cuyo estado no coincide con sus asignaciones activas",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()
			return reportViolations(cmd.Context(), cmd.OutOrStdout(), b)
		},
	}
}

func reportViolations(ctx context.Context, out io.Writer, b *bootstrap.Backend) error {
	violations, err := lotes.Audit(ctx, b.LoteRepo, b.AsignacionRepo)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		fmt.Fprintln(out, "ok: estados y asignaciones consistentes")
		return nil
	}
	for _, v := range violations {
		fmt.Fprintln(out, v.String())
	}
	return fmt.Errorf("%d lotes inconsistentes", len(violations))
}
