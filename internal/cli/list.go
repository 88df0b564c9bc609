package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/config"
	"github.com/rahulpattadi/toppers/internal/source"
	"github.com/spf13/cobra"
)

var listOpts struct {
	source     string
	search     string
	difficulty string
	qtype      string
	tag        string
	page       int
	solutions  bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print a filtered page of questions",
	Long: `Loads the question data once and prints one page of the filtered
questions, using the page size of the site config. Solutions are
printed with --solutions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := config.LoadSite(siteConfigPath(os.Getenv("SITE_CONFIG")))
		if err != nil {
			return err
		}

		src := listOpts.source
		if src == "" {
			src = site.Chapter.DataFile
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		res := source.NewLoader(src, 0).Load(ctx)
		if res.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Using built-in questions: %v\n", res.Err)
		}

		state := bank.NewViewState(res.Questions, site.Display.QuestionsPerPage).ApplyFilters(bank.Criteria{
			Search:     listOpts.search,
			Difficulty: strings.ToLower(listOpts.difficulty),
			Type:       strings.ToLower(listOpts.qtype),
			Tag:        listOpts.tag,
		})
		if listOpts.page > 1 {
			next, ok := state.GoToPage(listOpts.page)
			if !ok {
				return fmt.Errorf("page %d out of range (1-%d)", listOpts.page, state.TotalPages())
			}
			state = next
		}

		printView(cmd.OutOrStdout(), bank.Render(state, nil), listOpts.solutions)
		return nil
	},
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listOpts.source, "source", "", "data file path or URL (default chapter.data_file)")
	f.StringVarP(&listOpts.search, "query", "q", "", "search question and solution text")
	f.StringVarP(&listOpts.difficulty, "difficulty", "d", "all", "easy, medium, hard or all")
	f.StringVarP(&listOpts.qtype, "type", "t", "all", "numerical, conceptual, derivation or all")
	f.StringVar(&listOpts.tag, "tag", "all", "tag to match")
	f.IntVarP(&listOpts.page, "page", "p", 1, "page number")
	f.BoolVarP(&listOpts.solutions, "solutions", "s", false, "print solutions")
	rootCmd.AddCommand(listCmd)
}

func printView(w io.Writer, v bank.View, solutions bool) {
	if v.Empty {
		fmt.Fprintf(w, "%s\n%s\n", v.NoResults.Title, v.NoResults.Hint)
		return
	}

	for _, c := range v.Cards {
		fmt.Fprintf(w, "Q%d. %s\n", c.Number, c.Text)
		fmt.Fprintf(w, "    [%s] %s", c.DifficultyLabel, c.Meta)
		if len(c.Tags) > 0 {
			labels := make([]string, len(c.Tags))
			for i, t := range c.Tags {
				labels[i] = t.Label
			}
			fmt.Fprintf(w, " | %s", strings.Join(labels, ", "))
		}
		fmt.Fprintln(w)
		if c.Image != nil {
			fmt.Fprintf(w, "    %s: %s\n", c.Image.Alt, c.Image.Src)
		}
		if solutions {
			fmt.Fprintf(w, "    Approach: %s\n", c.Solution)
			for _, s := range c.Steps {
				fmt.Fprintf(w, "    %d. %s\n", s.Number, strings.ReplaceAll(s.Text, "\n", "\n       "))
			}
			fmt.Fprintf(w, "    Formula: %s\n", c.Formula)
			fmt.Fprintf(w, "    Answer: %s\n", c.Answer)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Page %d of %d (%d of %d questions)\n", v.Page, v.TotalPages, v.FilteredCount, v.TotalCount)
}
