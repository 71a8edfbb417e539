package state

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/sleuth/internal/config"
	"github.com/Paintersrp/sleuth/internal/logging"
	"github.com/Paintersrp/sleuth/internal/sync"
	"github.com/Paintersrp/sleuth/pkg/shared/app"
)

var ErrNotFileBackend = errors.New("state sync only works with the file store backend")

func NewCmdState(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Back up or restore search history and preferences",
		Long: heredoc.Doc(`
			Copies the state file (search history, theme and language) to or from
			the S3 bucket named in the sync section of the config. AWS credentials
			come from the usual environment and shared config unless access_key and
			secret_key are set.

			This is a manual copy: pull replaces the local file with the remote one.
		`),
		Example: heredoc.Doc(`
			sleuth state push
			SLEUTH_SYNC_BUCKET=my-backups sleuth state pull
		`),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "push",
			Short: "Upload the local state file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				client, cfg, done, err := open(cmd, a)
				if err != nil {
					return err
				}
				defer done()

				if err := client.Push(cmd.Context(), cfg.Store.Path); err != nil {
					return err
				}
				fmt.Fprintf(a.Err, "pushed %s to s3://%s/%s\n", cfg.Store.Path, client.Bucket(), client.Key())
				return nil
			},
		},
		&cobra.Command{
			Use:   "pull",
			Short: "Replace the local state file with the uploaded one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				client, cfg, done, err := open(cmd, a)
				if err != nil {
					return err
				}
				defer done()

				n, err := client.Pull(cmd.Context(), cfg.Store.Path)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.Err, "pulled s3://%s/%s (%d bytes) to %s\n", client.Bucket(), client.Key(), n, cfg.Store.Path)
				return nil
			},
		},
	)

	return cmd
}

// open builds the sync client from the config alone. The store is left
// closed so a pull cannot be overwritten by a later flush.
func open(cmd *cobra.Command, a *app.App) (*sync.Client, *config.Config, func(), error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Store.Backend != config.BackendFile {
		return nil, nil, nil, fmt.Errorf("%w (backend is %q)", ErrNotFileBackend, cfg.Store.Backend)
	}

	logger, closer, err := logging.New(cfg.Log, a.Viper.GetBool("verbose"), a.Err)
	if err != nil {
		return nil, nil, nil, err
	}
	done := func() { _ = closer.Close() }

	client, err := sync.New(cmd.Context(), cfg.Sync, logger)
	if err != nil {
		done()
		return nil, nil, nil, err
	}
	return client, cfg, done, nil
}
