package cmd

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	clearHistory bool
	assumeYes    bool
	exportDir    string
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List your favorite manga",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		env.coord.ShowFavorites()
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently viewed manga",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		if !clearHistory {
			env.coord.ShowHistory()
			return nil
		}

		confirm := func() bool {
			if assumeYes {
				return true
			}
			fmt.Fprint(cmd.OutOrStdout(), "Clear all reading history? (y/N) ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			return answer == "y" || answer == "yes"
		}
		return env.report(env.coord.OnClearHistory(confirm))
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Switch between the dark and light theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		if err := env.coord.ToggleTheme(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", env.coord.State().Theme)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your favorites as an EPUB",
	Long:  "Compile your favorites, with their covers, into an EPUB you can read on any e-reader",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		favorites := env.coord.State().Favorites
		if len(favorites) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No favorites to export.")
			return nil
		}

		dir := exportDir
		if dir == "" {
			dir = env.exportDir()
		}
		path, err := env.exporter(dir).Export(cmd.Context(), favorites)
		if err != nil {
			return err
		}
		abs, _ := filepath.Abs(path)
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Exported %d manga to %s\n", len(favorites), abs)
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "clear the reading history")
	historyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	exportCmd.Flags().StringVarP(&exportDir, "out", "o", "", "output directory (default: current directory)")

	rootCmd.AddCommand(favoritesCmd, historyCmd, themeCmd, exportCmd)
}
