package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsawler/tabgrid/internal/report"
	"github.com/tsawler/tabgrid/internal/store"
)

// NewRunsCmd creates the runs command and its subcommands
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect results stored with build --save",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runRunsList,
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the report of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunsShow,
	}

	cmd.AddCommand(list, show)
	return cmd
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	db, err := store.Open(dbDir(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs(cmd.Context())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tPAGES\tTABLES\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n",
			r.ID, r.Created.Format("2006-01-02 15:04:05"), r.Pages, r.Tables, r.Source)
	}
	return tw.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	db, err := store.Open(dbDir(cmd))
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Load(cmd.Context(), id)
	if err != nil {
		return err
	}
	return report.NewWriter(cmd.OutOrStdout()).Write(fmt.Sprintf("run %d", id), results, nil)
}
