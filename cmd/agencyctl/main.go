package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-tickets/internal/api/dto"
	"github.com/agencydesk/agency-tickets/internal/auth"
	"github.com/agencydesk/agency-tickets/internal/config"
	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/observability"
	"github.com/agencydesk/agency-tickets/internal/persistence"
	"github.com/agencydesk/agency-tickets/internal/service"
)

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "agencyctl:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "agencyctl",
		Short:         "Operate the agency ticket service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newMigrateCmd(), newTokenCmd(), newStatsCmd())
	return root
}

func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// stdout carries command output
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env, observability.WithOutput("stderr"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			store, err := persistence.OpenStore(cmd.Context(), cfg, logger, true)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", store.Driver)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTokenTTL()
			}
			token, expiresAt, err := auth.NewTokenManager(cfg.Auth.JWTSecret, ttl).GenerateToken(subject, auth.Role(role))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"token":      token,
				"role":       role,
				"expires_at": expiresAt.UTC(),
			})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "caller name recorded in the token")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleViewer), "viewer or operator")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to AUTH_ACCESS_TOKEN_TTL_MINUTES)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var agentID string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print global or per-agent statistics as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			store, err := persistence.OpenStore(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer store.Close()

			stats := service.NewStatisticsService(service.Dependencies{Store: store, Logger: logger})
			if agentID != "" {
				agent, err := stats.AgentStatistics(cmd.Context(), agentID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), dto.AgentStatisticsResponse{
					AgentID:        agent.AgentID,
					FullName:       agent.FullName,
					TotalTickets:   agent.TotalTickets,
					EventsByStatus: statusCounts(agent.EventsByStatus),
				})
			}
			global, err := stats.GlobalStatistics(cmd.Context())
			if err != nil {
				return err
			}
			categories := make(map[string]int64, len(global.AgentsByCategory))
			for category, count := range global.AgentsByCategory {
				categories[string(category)] = count
			}
			return writeJSON(cmd.OutOrStdout(), dto.GlobalStatisticsResponse{
				TotalAgents:      global.TotalAgents,
				TotalTickets:     global.TotalTickets,
				EventsByStatus:   statusCounts(global.EventsByStatus),
				AgentsByCategory: categories,
				GeneratedAt:      global.GeneratedAt,
			})
		},
	}
	cmd.Flags().StringVar(&agentID, "agent", "", "agent id; omit for global statistics")
	return cmd
}

func statusCounts(counts map[domain.TicketStatus]int64) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
