package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencommittee/scribe/credentials"
)

func newAuthCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the completion-service API key",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Store the API key in the system keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := credentials.PromptAPIKey()
			if err != nil {
				return err
			}
			if err := credentials.SetAPIKey(key); err != nil {
				return err
			}
			fmt.Println("API key stored")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored API key, masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := credentials.APIKey()
			if err != nil {
				if errors.Is(err, credentials.ErrNoCredentials) {
					fmt.Println("No API key stored")
					return nil
				}
				return err
			}
			fmt.Println(credentials.MaskAPIKey(key))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key from the keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credentials.DeleteAPIKey(); err != nil {
				return err
			}
			fmt.Println("API key removed")
			return nil
		},
	})

	return cmd
}
