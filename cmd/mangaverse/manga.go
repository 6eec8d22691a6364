package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [mal-id]",
	Short: "Show a manga's details",
	Long:  "Show the full record of a manga and add it to your reading history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		return env.report(env.coord.OnSelectItem(cmd.Context(), id))
	},
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random manga",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		return env.report(env.coord.OnRandom(cmd.Context()))
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite [mal-id]",
	Short: "Add a manga to your favorites, or remove it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		env, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		env.coord.Restore()
		if err := env.coord.OnSelectItem(cmd.Context(), id); err != nil {
			return env.report(err)
		}
		return env.report(env.coord.OnToggleFavorite(id))
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid manga id %q", s)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(showCmd, randomCmd, favoriteCmd)
}
