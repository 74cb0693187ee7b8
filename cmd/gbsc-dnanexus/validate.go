package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/config"
)

var validateStrict bool

var validateUsernameCmd = &cobra.Command{
	Use:   "validate-username <name>",
	Short: "Check that a username has an API token in the login configuration.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidateUsername(commandContext(cmd), args[0], validateStrict, cmd.OutOrStdout())
	},
}

func init() {
	validateUsernameCmd.Flags().BoolVar(&validateStrict, "strict", false, "report why the name is invalid instead of printing false")
}

// runValidateUsername prints true or false. With strict, an unknown name or a
// missing token is returned as an error instead.
func runValidateUsername(ctx context.Context, name string, strict bool, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	ok, err := reg.Validate(name, strict)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ok)
	if !ok {
		return &exitError{code: 1, silent: true}
	}
	return nil
}
