package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seafood-shop/internal/service"
)

var adminInput service.EmployeeInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create an administrator account. Administrators cannot be created
through the HTTP API, so the first one has to come from here.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, done, err := open()
		if err != nil {
			return err
		}
		defer done()

		u, err := e.svc.Users.EnsureAdmin(cmd.Context(), adminInput)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %s)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVarP(&adminInput.Username, "username", "u", "admin", "login name")
	f.StringVarP(&adminInput.Email, "email", "e", "", "email address")
	f.StringVarP(&adminInput.Password, "password", "p", "", "password (letters and digits, 6-64 chars)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
