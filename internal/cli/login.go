package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LoginCommand manages starting speedydisk at login
type LoginCommand struct {
	ctx *GlobalContext
}

// NewLoginCommand creates the login command with its subcommands
func NewLoginCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &LoginCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "login",
		Short: "Restore auto-create volumes when you log in",
	}

	cobraCmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Run \"speedydisk restore\" at login",
		Args:  cobra.NoArgs,
		RunE:  cmd.Enable,
	})
	cobraCmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Stop running speedydisk at login",
		Args:  cobra.NoArgs,
		RunE:  cmd.Disable,
	})
	cobraCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether speedydisk runs at login",
		Args:  cobra.NoArgs,
		RunE:  cmd.Status,
	})

	return cobraCmd
}

func (c *LoginCommand) manager() error {
	if c.ctx.Login == nil {
		return fmt.Errorf("login items are not available for this user")
	}
	return nil
}

// Enable registers the login item
func (c *LoginCommand) Enable(cmd *cobra.Command, args []string) error {
	if err := c.manager(); err != nil {
		return err
	}
	if err := c.ctx.Login.Enable(cmd.Context()); err != nil {
		return err
	}
	c.ctx.Logger.Success("Enabled: %s", c.ctx.Login.Path())
	return nil
}

// Disable removes the login item
func (c *LoginCommand) Disable(cmd *cobra.Command, args []string) error {
	if err := c.manager(); err != nil {
		return err
	}
	if err := c.ctx.Login.Disable(cmd.Context()); err != nil {
		return err
	}
	c.ctx.Logger.Success("Disabled")
	return nil
}

// Status prints whether the login item is registered
func (c *LoginCommand) Status(cmd *cobra.Command, args []string) error {
	if err := c.manager(); err != nil {
		return err
	}
	state := "disabled"
	if c.ctx.Login.Enabled() {
		state = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", state, c.ctx.Login.Path())
	return nil
}
