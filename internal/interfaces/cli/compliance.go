package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	app "github.com/meridiancs/engage/internal/application/compliance"
	domain "github.com/meridiancs/engage/internal/domain/compliance"
	"github.com/meridiancs/engage/pkg/errors"
)

type complianceOptions struct {
	EngagementID string
	CompanyID    string
	Service      string
	Status       string
}

func (o *complianceOptions) viewParams() app.ViewParams {
	return app.ViewParams{
		EngagementID: o.EngagementID,
		CompanyID:    o.CompanyID,
		ServiceName:  o.Service,
	}
}

func newComplianceCommand(cliCtx *CLIContext) *cobra.Command {
	opts := &complianceOptions{}

	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Inspect and progress compliance obligations",
	}
	cmd.PersistentFlags().StringVarP(&opts.EngagementID, "engagement", "e", "", "engagement ID (required)")
	cmd.PersistentFlags().StringVarP(&opts.CompanyID, "company", "c", "", "company ID for the calendar source")
	cmd.PersistentFlags().StringVarP(&opts.Service, "service", "s", "", "active service tab for category filtering")
	_ = cmd.MarkPersistentFlagRequired("engagement")

	cmd.AddCommand(
		newComplianceListCommand(cliCtx, opts),
		newComplianceCountsCommand(cliCtx, opts),
		newComplianceDoneCommand(cliCtx, opts),
	)
	return cmd
}

// refresh fetches the view and returns its snapshot, treating a retained
// fetch error message as a command failure.
func refresh(cmd *cobra.Command, cliCtx *CLIContext, opts *complianceOptions, filter domain.StatusFilter) (app.Snapshot, error) {
	tracker := cliCtx.Manager.Tracker(opts.viewParams())
	if err := tracker.Refresh(cmd.Context()); err != nil {
		return app.Snapshot{}, err
	}
	return tracker.Snapshot(filter), nil
}

func newComplianceListCommand(cliCtx *CLIContext, opts *complianceOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List compliance items for an engagement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, ok := domain.ParseStatusFilter(opts.Status)
			if !ok {
				return errors.InvalidParam("--status must be one of all, overdue, due_today, upcoming, filed")
			}
			snap, err := refresh(cmd, cliCtx, opts, filter)
			if err != nil {
				return err
			}
			if cliCtx.Opts.Output == "json" {
				return json.NewEncoder(os.Stdout).Encode(snap)
			}

			rows := make([][]string, 0, len(snap.Items))
			for _, it := range snap.Items {
				rows = append(rows, []string{
					it.ID,
					it.Title,
					string(it.LifecycleStatus),
					it.DueDate.Format("2006-01-02"),
					it.ServiceCategory,
					fmt.Sprintf("%t", it.Actionable),
				})
			}
			FormatTable([]string{"ID", "TITLE", "STATUS", "DUE", "CATEGORY", "ACTIONABLE"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by lifecycle status")
	return cmd
}

func newComplianceCountsCommand(cliCtx *CLIContext, opts *complianceOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show per-status counts for an engagement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := refresh(cmd, cliCtx, opts, domain.FilterAll)
			if err != nil {
				return err
			}
			if cliCtx.Opts.Output == "json" {
				return json.NewEncoder(os.Stdout).Encode(snap.Counts)
			}

			FormatTable([]string{"STATUS", "COUNT"}, [][]string{
				{string(domain.StatusOverdue), fmt.Sprintf("%d", snap.Counts.Overdue)},
				{string(domain.StatusDueToday), fmt.Sprintf("%d", snap.Counts.DueToday)},
				{string(domain.StatusUpcoming), fmt.Sprintf("%d", snap.Counts.Upcoming)},
				{string(domain.StatusFiled), fmt.Sprintf("%d", snap.Counts.Filed)},
				{"total", fmt.Sprintf("%d", snap.Counts.Total())},
			})
			return nil
		},
	}
}

func newComplianceDoneCommand(cliCtx *CLIContext, opts *complianceOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <obligation-id>",
		Short: "Mark an obligation as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker := cliCtx.Manager.Tracker(opts.viewParams())
			if err := tracker.Refresh(cmd.Context()); err != nil {
				return err
			}
			if err := tracker.MarkActioned(cmd.Context(), args[0]); err != nil {
				return err
			}

			snap := tracker.Snapshot(domain.FilterAll)
			for _, it := range snap.Items {
				if it.ID == args[0] {
					fmt.Printf("Obligation %s is now %s\n", it.ID, it.LifecycleStatus)
					return nil
				}
			}
			fmt.Printf("Obligation %s processed\n", args[0])
			return nil
		},
	}
}
