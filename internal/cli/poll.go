package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newPollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Pick up new mail and report changes",
		Long:  "Run the index's new-mail scan and report whether anything changed since the last poll.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := a.client.Poll(cmd.Context()); err != nil {
				return err
			}

			lastmod, err := a.client.Lastmod(cmd.Context())
			if err != nil {
				return err
			}
			watermark, err := db.Lastmod(cmd.Context())
			if err != nil {
				return err
			}

			if lastmod == watermark {
				fmt.Println("No changes.")
				return nil
			}
			fmt.Printf("Index changed (revision %d -> %d).\n", watermark, lastmod)
			return db.SetLastmod(cmd.Context(), lastmod)
		},
	}
	return cmd
}

func newSearchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "searches",
		Short: "List saved searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			searches, err := db.ListSearches(cmd.Context())
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(toJSONSearches(searches))
			}

			if len(searches) == 0 {
				fmt.Println("No saved searches.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tQUERY\tSAVED")
			for _, s := range searches {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Query, s.CreatedAt.Format(time.DateOnly))
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(newSearchesDeleteCmd())
	return cmd
}

func newSearchesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.DeleteSearch(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted saved search %q.\n", args[0])
			return nil
		},
	}
	return cmd
}
