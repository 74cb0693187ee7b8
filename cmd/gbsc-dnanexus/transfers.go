package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/admin"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
)

type transferOptions struct {
	User    string
	Org     string
	Queue   string
	LogFile string
}

var transferOpts transferOptions

var acceptTransfersCmd = &cobra.Command{
	Use:   "accept-pending-transfers",
	Short: "Accept a user's pending project transfers and bill them to an org.",
	Long: `Accept every pending project transfer of --user-name, billing each project to
--org. With --queue, only projects whose "queue" property equals the given value
are accepted.`,
	Args:        cobra.NoArgs,
	Annotations: structuredLogging(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAcceptTransfers(commandContext(cmd), cmd.CommandPath(), transferOpts, cmd.ErrOrStderr())
	},
}

func init() {
	f := acceptTransfersCmd.Flags()
	f.StringVarP(&transferOpts.User, "user-name", "u", "", "DNAnexus login name receiving the transfers")
	f.StringVarP(&transferOpts.Org, "org", "o", "", "billing account; a bare name is taken as an org, user-/org- IDs are used as given")
	f.StringVar(&transferOpts.Queue, "queue", "", `only accept projects whose "queue" property matches`)
	f.StringVar(&transferOpts.LogFile, "log-file", "", "append info-level logs to this file")
	_ = acceptTransfersCmd.MarkFlagRequired("user-name")
	_ = acceptTransfersCmd.MarkFlagRequired("org")
}

// billingAccount adds the org- prefix to a bare account name.
func billingAccount(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || normalize.IsBillingAccount(raw) {
		return raw
	}
	return normalize.OrgID(raw)
}

func runAcceptTransfers(parent context.Context, command string, opts transferOptions, out io.Writer) error {
	if normalize.Username(opts.User) == "" {
		return errors.New("--user-name is required")
	}
	billTo := billingAccount(opts.Org)
	if billTo == "" {
		return errors.New("--org is required")
	}

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(ctx, command, sessionOptions{User: opts.User, LogFile: opts.LogFile, Stderr: out})
	if err != nil {
		return err
	}
	defer s.Close()

	accepted, acceptErr := s.service().AcceptPendingTransfers(ctx, admin.TransferRequest{
		User:   s.cred.User,
		BillTo: billTo,
		Queue:  opts.Queue,
	})
	for _, projectID := range accepted {
		s.logger.Info("accepted project transfer", "user", s.cred.User, "project_id", projectID, "bill_to", billTo)
	}
	s.logger.Info("pending transfers finished", "accepted", len(accepted), "ok", acceptErr == nil)

	return runError(acceptErr)
}
