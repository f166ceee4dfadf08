package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-records/config"
	"github.com/jwalitptl/clinic-records/internal/app"
	"github.com/jwalitptl/clinic-records/internal/handler"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/service/rbac"
	"github.com/jwalitptl/clinic-records/pkg/logger"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "clinic",
		Short:         "Role-gated clinical records browser",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config.yml file")

	rootCmd.AddCommand(shellCmd(&configPath))
	rootCmd.AddCommand(matrixCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func shellCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive command shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			name, _ := cmd.Flags().GetString("name")
			script, _ := cmd.Flags().GetString("script")

			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg.Log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(cfg, log, prometheus.NewRegistry())
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer a.Close()

			sh := handler.NewShell(a, cmd.OutOrStdout(), log)
			if role != "" {
				if err := sh.Exec(ctx, fmt.Sprintf("login %q %q", role, name)); err != nil {
					return err
				}
			}

			var in io.Reader = cmd.InOrStdin()
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				in = f
			}
			return sh.Run(ctx, in)
		},
	}
	cmd.Flags().String("role", "", "Sign in under this role on start")
	cmd.Flags().String("name", "", "Display name for --role")
	cmd.Flags().String("script", "", "Read commands from a file instead of stdin")
	return cmd
}

func matrixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matrix",
		Short: "Print the role permission matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROLE\tVIEW\tEDIT\tCREATE\tDELETE\tAPPROVE\tAUDIT")
			for _, role := range model.Roles {
				p := rbac.RolePermissions[role]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\t%t\n",
					role,
					joinScreens(p.CanView),
					joinResources(p.CanEdit),
					joinResources(p.CanCreate),
					joinResources(p.CanDelete),
					p.CanApprove,
					p.CanViewAuditLog,
				)
			}
			return w.Flush()
		},
	}
}

func newLogger(cfg config.LogConfig) *logger.Logger {
	json := false
	switch strings.ToLower(cfg.Format) {
	case "json":
		json = true
	case "auto", "":
		json = !isatty.IsTerminal(os.Stderr.Fd())
	}
	return logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
		JSON:       json,
	})
}

func joinScreens(screens []model.ScreenID) string {
	parts := make([]string, len(screens))
	for i, s := range screens {
		parts[i] = string(s)
	}
	return dashIfEmpty(strings.Join(parts, ","))
}

func joinResources(resources []rbac.Resource) string {
	parts := make([]string, len(resources))
	for i, r := range resources {
		parts[i] = string(r)
	}
	return dashIfEmpty(strings.Join(parts, ","))
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
