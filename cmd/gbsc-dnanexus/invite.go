package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/admin"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dnanexus"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/normalize"
)

type inviteOptions struct {
	User         string
	Level        string
	Org          string
	CreatedAfter string
	LogFile      string
	SendEmail    bool
	Yes          bool
}

var inviteOpts inviteOptions

var inviteCmd = &cobra.Command{
	Use:   "invite-user-to-projects",
	Short: "Invite a user to every org project created after a cutoff, at the given access level.",
	Long: `Invite a user to every project billed to an org and created after --created-after.
Projects where the user already holds exactly --access-level are left alone; a
project held at any other level, higher or lower, is re-invited.

The user's API token is read from the login configuration (DX_LOGIN_CONF) or the
vault registry, falling back to DX_SECURITY_CONTEXT.`,
	Args:        cobra.NoArgs,
	Annotations: structuredLogging(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInvite(commandContext(cmd), cmd.CommandPath(), inviteOpts, cmd.InOrStdin(), cmd.ErrOrStderr(), stdinIsTerminal())
	},
}

func init() {
	f := inviteCmd.Flags()
	f.StringVarP(&inviteOpts.User, "user-name", "u", "", "DNAnexus login name to invite; its API token must be in the login configuration")
	f.StringVarP(&inviteOpts.Level, "access-level", "l", "", "access level to grant: "+strings.Join(levelChoices(), ", "))
	f.StringVarP(&inviteOpts.Org, "org", "o", "", "DNAnexus org that owns the projects, with or without the org- prefix")
	f.StringVar(&inviteOpts.CreatedAfter, "created-after", "", "date (2012-01-01), ms timestamp, or relative time such as -2w (suffixes s, m, h, d, w, M, y)")
	f.StringVar(&inviteOpts.LogFile, "log-file", "", "append info-level logs to this file")
	f.BoolVar(&inviteOpts.SendEmail, "send-email", false, "let DNAnexus email the invitee")
	f.BoolVarP(&inviteOpts.Yes, "yes", "y", false, "do not ask for confirmation")
	for _, name := range []string{"user-name", "access-level", "org", "created-after"} {
		_ = inviteCmd.MarkFlagRequired(name)
	}
}

func levelChoices() []string {
	out := make([]string, 0, len(dnanexus.InviteLevels))
	for _, l := range dnanexus.InviteLevels {
		out = append(out, string(l))
	}
	return out
}

func runInvite(parent context.Context, command string, opts inviteOptions, in io.Reader, out io.Writer, interactive bool) error {
	level, err := dnanexus.ParseAccessLevel(opts.Level)
	if err != nil {
		return err
	}
	if normalize.Username(opts.User) == "" {
		return errors.New("--user-name is required")
	}
	if normalize.OrgName(opts.Org) == "" {
		return errors.New("--org is required")
	}

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(ctx, command, sessionOptions{User: opts.User, LogFile: opts.LogFile, Stderr: out})
	if err != nil {
		return err
	}
	defer s.Close()

	if !opts.Yes {
		question := fmt.Sprintf("Invite %s at %s to projects of %s created after %s?",
			s.cred.User, level, normalize.OrgID(opts.Org), opts.CreatedAfter)
		ok, err := confirm(in, out, interactive, question)
		if err != nil {
			return err
		}
		if !ok {
			return &exitError{code: 1, err: errNotConfirmed}
		}
	}

	invited, sweepErr := s.service().InviteUserToOrgProjects(ctx, admin.InviteRequest{
		Org:          opts.Org,
		Invitee:      s.cred.User,
		CreatedAfter: opts.CreatedAfter,
		Level:        level,
		SendEmail:    opts.SendEmail,
	})

	names := make([]string, 0, len(invited))
	for name := range invited {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.logger.Info("invited user to project", "user", s.cred.User, "project", name, "project_id", invited[name], "level", string(level))
	}
	s.logger.Info("invitation sweep finished", "invited", len(invited), "ok", sweepErr == nil)

	return runError(sweepErr)
}
