package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/spf13/cobra"
)

var (
	listOrder string
	listGenre string
	listPage  int
	searchPg  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List manga from the catalog",
	Long:  "List a page of the catalog ordered by popularity, score, start date or favorites, optionally filtered by genre",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		order := data.OrderBy(listOrder)
		if !order.Valid() {
			return fmt.Errorf("unknown order %q, expected one of: popularity, score, start_date, favorites", listOrder)
		}
		genre, err := parseGenre(listGenre)
		if err != nil {
			return err
		}

		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		return env.report(env.coord.ListPage(cmd.Context(), order, genre, listPage))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for manga",
	Long:  "Search the catalog by title and display results in a table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		return env.report(env.coord.SearchPage(cmd.Context(), strings.Join(args, " "), searchPg))
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the top rated manga",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		return env.report(env.coord.RefreshTrending(cmd.Context()))
	},
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres accepted by --genre",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTable("ID", "Genre")
		for _, g := range data.Genres {
			t.Row(strconv.Itoa(g.ID), g.Name)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
	},
}

// parseGenre accepts a genre id or name, "" meaning no genre.
func parseGenre(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if id, err := strconv.Atoi(s); err == nil {
		if _, ok := data.GenreName(id); !ok {
			return 0, fmt.Errorf("unknown genre id %d", id)
		}
		return id, nil
	}
	for _, g := range data.Genres {
		if strings.EqualFold(g.Name, s) {
			return g.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown genre %q, see 'mangaverse genres'", s)
}

func init() {
	listCmd.Flags().StringVarP(&listOrder, "order", "o", string(data.OrderPopularity), "ordering: popularity, score, start_date, favorites")
	listCmd.Flags().StringVarP(&listGenre, "genre", "g", "", "genre id or name")
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	searchCmd.Flags().IntVarP(&searchPg, "page", "p", 1, "page number")

	rootCmd.AddCommand(listCmd, searchCmd, trendingCmd, genresCmd)
}
