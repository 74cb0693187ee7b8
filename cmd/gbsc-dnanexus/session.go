package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/admin"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/config"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/dnanexus"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/logging"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/login"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/metrics"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/registry"
)

// session is the per-run state shared by the commands that talk to DNAnexus.
type session struct {
	cfg     config.Config
	logger  *slog.Logger
	reg     *registry.Registry
	cred    login.Credential
	client  *dnanexus.Client
	logFile io.Closer
}

type sessionOptions struct {
	User    string
	LogFile string
	// Stderr receives console logs. Nil means os.Stderr.
	Stderr io.Writer
}

// openSession loads config, sets up logging, loads the registry, runs the login
// helper, and builds a client authenticated as opts.User.
func openSession(ctx context.Context, command string, opts sessionOptions) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	if err := s.setupLogging(command, opts); err != nil {
		return nil, err
	}

	reg, err := loadRegistry(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.reg = reg

	if err := login.RunHelper(ctx, cfg.LoginHelper, opts.User); err != nil {
		s.Close()
		return nil, err
	}
	cred, err := login.Resolve(reg, opts.User, cfg.SecurityContext)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.cred = cred

	client, err := dnanexus.New(cfg.APIServer, cred.Token)
	if err != nil {
		s.Close()
		return nil, err
	}
	client.HTTP.Timeout = cfg.HTTPTimeout
	client.TokenType = cred.TokenType
	client.Logger = s.logger
	s.client = client

	s.logger.Debug("session ready", "user", cred.User, "credential_source", cred.Source, "api_server", cfg.APIServer)
	return s, nil
}

func (s *session) setupLogging(command string, opts sessionOptions) error {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	bootstrap := logging.BootstrapOptions{Command: command, Writer: stderr}
	if opts.LogFile != "" {
		f, err := logging.OpenFile(opts.LogFile)
		if err != nil {
			return err
		}
		s.logFile = f
		bootstrap.File = f
	}

	logger, err := logging.BootstrapFromEnv(bootstrap)
	if err != nil {
		s.Close()
		return err
	}
	s.logger = logger.With("run_id", uuid.NewString())
	return nil
}

func (s *session) service() *admin.Service {
	return admin.NewService(s.client, s.logger)
}

// Close writes the metrics textfile, if configured, and closes the log file.
func (s *session) Close() {
	if s == nil {
		return
	}
	if s.logger != nil {
		if err := metrics.WriteTextfile(s.cfg.MetricsTextfile); err != nil {
			s.logger.Warn("failed to write metrics textfile", "path", s.cfg.MetricsTextfile, "err", err)
		}
	}
	if s.logFile != nil {
		_ = s.logFile.Close()
		s.logFile = nil
	}
}

func loadRegistry(ctx context.Context, cfg config.Config) (*registry.Registry, error) {
	switch cfg.RegistrySource {
	case config.RegistrySourceVault:
		return registry.LoadVault(ctx, registry.VaultOptions{
			Address:   cfg.Vault.Address,
			Token:     cfg.Vault.Token,
			Namespace: cfg.Vault.Namespace,
			Mount:     cfg.Vault.Mount,
			Path:      cfg.Vault.Path,
		})
	case config.RegistrySourceFile:
		return registry.LoadFile(cfg.LoginConfPath)
	default:
		return nil, errors.New("registry source is not configured")
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
