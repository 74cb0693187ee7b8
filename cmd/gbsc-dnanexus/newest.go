package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var newestUser string

var newestProjectCmd = &cobra.Command{
	Use:   "newest-project <project-id>...",
	Short: "Print the most recently created of the given projects.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNewestProject(commandContext(cmd), cmd.CommandPath(), newestUser, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	newestProjectCmd.Flags().StringVarP(&newestUser, "user-name", "u", "", "DNAnexus login name to describe the projects as")
	_ = newestProjectCmd.MarkFlagRequired("user-name")
}

func runNewestProject(ctx context.Context, command, user string, ids []string, out, logOut io.Writer) error {
	if len(ids) == 1 {
		fmt.Fprintln(out, ids[0])
		return nil
	}
	if len(ids) == 0 {
		return errors.New("at least one project id is required")
	}

	s, err := openSession(ctx, command, sessionOptions{User: user, Stderr: logOut})
	if err != nil {
		return err
	}
	defer s.Close()

	newest, err := s.service().SelectNewest(ctx, ids)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, newest)
	return nil
}
