// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/terminal"

	"github.com/spf13/cobra"
)

// checkoutCmd reserves a cart.
var checkoutCmd = &cobra.Command{
	Use:   "checkout [cart-id]",
	Short: "Check out a cart",
	Long: `The checkout command reserves the cart with the given id. Without an id
the available carts are listed and you pick one. Requires a signed-in
session.`,
	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := openApp(cmd, guard.RouteCheckout)
		if err != nil {
			return err
		}
		defer cleanup()

		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		return newView(a, terminal.Stdio()).checkoutPage(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
}
