package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	companyRepository "github.com/festy23/company_insights/internal/company/repository"
	requestRepository "github.com/festy23/company_insights/internal/companyrequest/repository"
	requestService "github.com/festy23/company_insights/internal/companyrequest/service"
	"github.com/festy23/company_insights/internal/config"
	"github.com/festy23/company_insights/internal/dispatch"
	"github.com/festy23/company_insights/internal/enrichment"
	"github.com/festy23/company_insights/internal/reconcile"
)

// noDispatch refuses work; the sweep never schedules enrichment.
type noDispatch struct{}

func (noDispatch) Dispatch(string, dispatch.Task) error { return dispatch.ErrClosed }

func newSweepCmd(c *cli) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Fail company requests stuck in processing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				olderThan = config.LoadPipelineConfigFromEnv().StaleAfter
			}

			db, release, err := c.openDB(cmd)
			if err != nil {
				return err
			}
			defer release()

			svc := requestService.New(
				requestRepository.New(db, c.log),
				companyRepository.New(db, c.log),
				enrichment.StaticEnricher{},
				noDispatch{},
				c.log,
			)
			n := reconcile.NewSweeper(svc, 0, olderThan, c.log).Sweep(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "failed %d stale request(s)\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "processing age after which a request is failed (default $PIPELINE_STALE_AFTER)")
	return cmd
}
