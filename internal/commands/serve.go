package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/feeaudit/internal/api"
	"github.com/cleared-dev/feeaudit/internal/detect"
	"github.com/cleared-dev/feeaudit/internal/ingest"
)

func newServeCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the audit HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := api.New(
				api.Config{BodyLimitMB: rt.cfg.Server.BodyLimitMB, Parallel: rt.cfg.Output.Parallel},
				detect.DefaultRegistry(rt.cfg.Tariff),
				ingest.DefaultRegistry(),
				rt.log,
			)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(rt.cfg.Server.Addr) }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				rt.log.Info().Msg("shutting down")
				return errors.Join(srv.Shutdown(), <-errCh)
			}
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = rt.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
