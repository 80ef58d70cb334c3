// workclockctl is the operator CLI: it talks straight to the database, so it
// works even when no admin account exists yet
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"workclock/internal/platform/config"
	"workclock/internal/platform/logger"
	"workclock/internal/platform/store"

	usersdom "workclock/internal/services/users/domain"
	usersrepo "workclock/internal/services/users/repo"
	userssvc "workclock/internal/services/users/service"
)

var (
	mintTTL        int
	mintProvider   string
	mintExternalID int64
	mintAdmin      bool
)

var rootCmd = &cobra.Command{
	Use:   "workclockctl",
	Short: "workclockctl: operator tooling for the workclock service",
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a one-time registration mnemonic",
	Run: func(cmd *cobra.Command, _ []string) {
		withUsers(func(ctx context.Context, svc *userssvc.Svc) error {
			in := usersdom.MintInput{TTLMinutes: mintTTL, GrantAdmin: mintAdmin}
			if mintProvider != "" {
				in.BindProvider = &mintProvider
				in.BindExternalID = &mintExternalID
			}
			out, err := svc.MintMnemonic(ctx, in)
			if err != nil {
				return err
			}
			return printJSON(out)
		})
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	Run: func(cmd *cobra.Command, _ []string) {
		withUsers(func(ctx context.Context, svc *userssvc.Svc) error {
			out, err := svc.ListUsers(ctx)
			if err != nil {
				return err
			}
			return printJSON(out)
		})
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired or consumed registration mnemonics",
	Run: func(cmd *cobra.Command, _ []string) {
		withUsers(func(ctx context.Context, svc *userssvc.Svc) error {
			n, err := svc.SweepCredentials(ctx)
			if err != nil {
				return err
			}
			return printJSON(map[string]int{"deleted": n})
		})
	},
}

func init() {
	mintCmd.Flags().IntVar(&mintTTL, "ttl", 0, "credential lifetime in minutes (0 = service default)")
	mintCmd.Flags().StringVar(&mintProvider, "bind-provider", "", "bind the credential to this identity provider")
	mintCmd.Flags().Int64Var(&mintExternalID, "bind-external-id", 0, "bind the credential to this external identity")
	mintCmd.Flags().BoolVar(&mintAdmin, "admin", false, "grant admin to the account that consumes the credential")

	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(sweepCmd)
}

// withUsers opens the store, builds the users service, and runs fn
func withUsers(fn func(ctx context.Context, svc *userssvc.Svc) error) {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")
	l := logger.Get()

	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	svc := userssvc.New(st.PG, usersrepo.NewPG(), userssvc.Config{})
	cobra.CheckErr(fn(ctx, svc))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
