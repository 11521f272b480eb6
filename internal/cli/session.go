package cli

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

const sessionPath = "/api/v1/session"

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands",
	}

	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionSizeCmd())
	cmd.AddCommand(newSessionPhaseCmd("start", "/start", "Lock the roster and start playing"))
	cmd.AddCommand(newSessionPhaseCmd("setup", "/setup", "Return to setup to change the roster"))
	cmd.AddCommand(newSessionRestoreCmd())
	cmd.AddCommand(newSessionResetCmd())

	return cmd
}

// runSession sends a session request and prints the returned snapshot
func runSession(cmd *cobra.Command, method, path string, body any) error {
	var result Session

	if err := client.Do(cmd.Context(), method, sessionPath+path, body, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output, cmd.OutOrStdout())
	out.Print(result)
	return nil
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, http.MethodGet, "", nil)
		},
	}
}

func newSessionSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size <n>",
		Short: "Set the number of players (2-4, setup only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid size: %s", args[0])
			}
			return runSession(cmd, http.MethodPut, "/roster-size", map[string]int{"size": size})
		},
	}
}

func newSessionPhaseCmd(use, path, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, http.MethodPost, path, nil)
		},
	}
}

func newSessionRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Reload the session from storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, http.MethodPost, "/restore", nil)
		},
	}
}

func newSessionResetCmd() *cobra.Command {
	var yes, cancel bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset all scores and history",
		Long: `Reset is a two-step operation. Without flags it arms the reset;
--yes confirms it (arming it first if needed) and --cancel disarms it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes && cancel {
				return fmt.Errorf("--yes and --cancel are mutually exclusive")
			}

			if cancel {
				return runSession(cmd, http.MethodDelete, "/reset", nil)
			}
			if !yes {
				return runSession(cmd, http.MethodPost, "/reset", nil)
			}

			if err := client.Post(cmd.Context(), sessionPath+"/reset", nil, nil); err != nil {
				return err
			}
			return runSession(cmd, http.MethodPost, "/reset/confirm", nil)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	cmd.Flags().BoolVar(&cancel, "cancel", false, "Cancel a pending reset")

	return cmd
}
