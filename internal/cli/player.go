package cli

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerRenameCmd())
	cmd.AddCommand(newPlayerScoreCmd("add", "increase", "Add points to a player"))
	cmd.AddCommand(newPlayerScoreCmd("sub", "decrease", "Subtract points from a player"))

	return cmd
}

func parsePlayerID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid player id: %s", arg)
	}
	return id, nil
}

func newPlayerRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> [name...]",
		Short: "Rename a player (an empty name restores the default)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			name := strings.Join(args[1:], " ")
			return runSession(cmd, http.MethodPatch, fmt.Sprintf("/players/%d", id), map[string]string{"name": name})
		},
	}
}

func newPlayerScoreCmd(use, direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> [points]",
		Short: short + " (default 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			// The server validates the text so custom entries get the same rules
			text := "1"
			if len(args) == 2 {
				text = args[1]
			}

			req := map[string]string{
				"text":      text,
				"direction": direction,
			}
			return runSession(cmd, http.MethodPost, fmt.Sprintf("/players/%d/score", id), req)
		},
	}
}
