package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bloovis/csup/internal/thread"
)

func newSearchCmd() *cobra.Command {
	var offsetFlag, limitFlag int
	var saveFlag string

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "List threads matching a notmuch query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			a, err := setup()
			if err != nil {
				return err
			}

			list, err := thread.Load(cmd.Context(), a.cache, query, offsetFlag, limitFlag, thread.LoadOptions{})
			if err != nil {
				return err
			}

			if saveFlag != "" {
				db, err := openDB(a.cfg)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := db.SaveSearch(cmd.Context(), saveFlag, query); err != nil {
					return err
				}
			}

			if jsonFlag {
				return printJSON(toJSONThreads(list.Handles))
			}

			if list.Len() == 0 {
				fmt.Println("No threads found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UNREAD\tDATE\tFROM\tMSGS\tSUBJECT\tTHREAD_ID")
			for _, h := range list.Handles {
				td, err := h.Data()
				if err != nil {
					return err
				}
				unread := " "
				if td.HasLabel("unread") {
					unread = "*"
				}
				from := ""
				if authors := td.Authors(); len(authors) > 0 {
					from = truncate(authors[0].ShortName(), 30)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					unread, td.DateWidget(), from, td.SizeWidget(),
					truncate(td.Subject, 50), td.ID,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&offsetFlag, "offset", 0, "number of threads to skip")
	cmd.Flags().IntVar(&limitFlag, "limit", 25, "max threads to show")
	cmd.Flags().StringVar(&saveFlag, "save", "", "save the query under this name")
	return cmd
}

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <thread-id>",
		Short: "Read a thread",
		Long:  "Display every message in a thread, with bodies, by thread ID.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID := args[0]

			a, err := setup()
			if err != nil {
				return err
			}

			list, err := thread.Load(cmd.Context(), a.cache, threadID, 0, 0, thread.LoadOptions{Body: true})
			if err != nil {
				return err
			}
			h, ok := list.FindThread(threadID)
			if !ok {
				return fmt.Errorf("thread %s not found", threadID)
			}
			td, err := h.Data()
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(toJSONThreadDetail(td))
			}

			fmt.Printf("Subject: %s\n", td.Subject)
			fmt.Printf("Thread ID: %s\n", td.ID)
			fmt.Printf("Messages: %d\n", td.Size())
			td.Walk(func(m *thread.Message, depth int, _ *thread.Message) bool {
				indent := strings.Repeat("  ", depth)
				fmt.Printf("\n%sFrom: %s\n", indent, m.From)
				if date := m.Header("Date"); date != "" {
					fmt.Printf("%sDate: %s\n", indent, date)
				}
				for _, chunk := range m.Chunks {
					for _, line := range chunk.Lines {
						fmt.Printf("%s%s\n", indent, line)
					}
				}
				return true
			})
			return nil
		},
	}
	return cmd
}

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <thread-id> [+label|-label]...",
		Short: "Add or remove labels on a thread",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID := args[0]

			a, err := setup()
			if err != nil {
				return err
			}

			list, err := thread.Load(cmd.Context(), a.cache, threadID, 0, 0, thread.LoadOptions{})
			if err != nil {
				return err
			}
			h, ok := list.FindThread(threadID)
			if !ok {
				return fmt.Errorf("thread %s not found", threadID)
			}
			td, err := h.Data()
			if err != nil {
				return err
			}

			for _, arg := range args[1:] {
				switch {
				case strings.HasPrefix(arg, "+"):
					td.ApplyLabel(arg[1:])
				case strings.HasPrefix(arg, "-"):
					td.RemoveLabel(arg[1:])
				default:
					return fmt.Errorf("label %q must start with + or -", arg)
				}
			}

			if err := td.Save(cmd.Context(), a.cache); err != nil {
				return err
			}
			fmt.Printf("Labels now: %s\n", strings.Join(td.Labels(), " "))
			return nil
		},
	}
	return cmd
}

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <query>...",
		Short: "Count messages matching a notmuch query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			n, err := a.client.Count(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}
	return cmd
}

// truncate shortens s to max runes with a trailing ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
