package main

import (
	"fmt"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/middleware"
	"github.com/SscSPs/campus_coin_ledger/internal/platform/config"
	"github.com/SscSPs/campus_coin_ledger/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("holder", "", "Holder id to put in the token subject")
	tokenCmd.Flags().String("role", string(middleware.RoleStudent), "Role claim: professor, student or admin")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("holder")
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed access token for local testing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		holder, _ := cmd.Flags().GetString("holder")
		role, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		signed, err := utils.GenerateAccessToken(holder, middleware.Role(role), cfg.JWTSecret, ttl, cfg.JWTIssuer)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}
