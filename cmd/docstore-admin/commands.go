package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"opsconsole/internal/bootstrap"
	"opsconsole/internal/config"
	"opsconsole/internal/domain/models/docstore"
	docstoreSvc "opsconsole/internal/domain/services/docstore"
	"opsconsole/internal/repository/postgres"
	docstoreService "opsconsole/internal/service/docstore"
)

// runtime is built once per invocation by the root command's pre-run hook
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	backends *bootstrap.Backends
	services *docstoreService.Services
}

func (rt *runtime) close() {
	if rt.backends != nil {
		rt.backends.Close()
	}
	if rt.closeLog != nil {
		rt.closeLog()
	}
}

func newRootCommand() *cobra.Command {
	rt := &runtime{}
	var envFile string

	cmd := &cobra.Command{
		Use:           "docstore-admin",
		Short:         "Document store maintenance",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(envFile)

			rt.cfg = config.Load()
			rt.cfg.AutoMigrate = false
			// stdout carries the JSON reports
			rt.logger, rt.closeLog = config.NewLoggerTo(rt.cfg, cmd.ErrOrStderr())

			policy, err := config.LoadAccessPolicy(rt.cfg.PolicyFile)
			if err != nil {
				return err
			}
			rt.backends, err = bootstrap.Open(cmd.Context(), rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			rt.services = docstoreService.SetupServices(rt.backends.Repos, rt.backends.Objects, rt.cfg, policy, rt.logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.close()
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(
		newInitSchemaCommand(rt),
		newRepairTreeCommand(rt),
		newSweepOrphansCommand(rt),
		newGrantCommand(rt),
		newProvisionRootCommand(rt),
	)
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newInitSchemaCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "init-schema",
		Short: "Create the document store tables and indexes if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.backends.Pool == nil {
				return errors.New("init-schema requires METADATA_BACKEND=postgres")
			}
			return postgres.EnsureSchema(cmd.Context(), rt.backends.Pool, rt.backends.Tables, rt.logger)
		},
	}
}

func newRepairTreeCommand(rt *runtime) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "repair-tree",
		Short: "Recompute folder paths and depths from parent links",
		Long: "Recomputes path and depth for every folder from parent_id. Runs as a dry run " +
			"unless --apply is given. Folders unreachable from any root are reported, never rewritten.",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := rt.services.Maintenance.RepairTree(cmd.Context(), !apply)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "write the recomputed values")
	return cmd
}

func newSweepOrphansCommand(rt *runtime) *cobra.Command {
	var apply bool
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "sweep-orphans",
		Short: "Remove stored objects that no file record references",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := rt.services.Maintenance.SweepOrphans(cmd.Context(), !apply, grace)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "remove the orphans found")
	cmd.Flags().DurationVar(&grace, "grace", config.DefaultOrphanGrace, "skip objects younger than this")
	return cmd
}

func newGrantCommand(rt *runtime) *cobra.Command {
	var req docstoreSvc.GrantRequest

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Set a per-folder grant, or the global edit grant when --folder is omitted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.services.Maintenance.Grant(cmd.Context(), &req); err != nil {
				return err
			}
			return printJSON(cmd, req)
		},
	}
	cmd.Flags().StringVar(&req.UserID, "user", "", "user id")
	cmd.Flags().StringVar(&req.FolderID, "folder", "", "folder id (empty for global edit)")
	cmd.Flags().BoolVar(&req.CanEdit, "can-edit", false, "allow edits")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newProvisionRootCommand(rt *runtime) *cobra.Command {
	var req docstoreSvc.ProvisionRootRequest
	var category string

	cmd := &cobra.Command{
		Use:   "provision-root",
		Short: "Create a client or prospect's personal root (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Category = docstore.Category(category)
			root, err := rt.services.Folder.ProvisionPersonalRoot(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return printJSON(cmd, root)
		},
	}
	cmd.Flags().StringVar(&req.UserID, "user", "", "user id")
	cmd.Flags().StringVar(&req.Name, "name", "", "root folder name")
	cmd.Flags().StringVar(&category, "category", "", "folder category (default clients)")
	cmd.Flags().BoolVar(&req.CanEdit, "can-edit", false, "grant edit on the new root")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
