package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/magellan-group/report-triage/internal/auth"
)

var tokenUser string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUser == "" {
			return eris.New("--user is required")
		}

		verifier, err := auth.NewVerifier(cfg.Auth)
		if err != nil {
			return err
		}
		tok, err := verifier.IssueToken(tokenUser)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user ID for the token subject")
	rootCmd.AddCommand(tokenCmd)
}
