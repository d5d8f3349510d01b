package main

import (
	"fmt"
	"gsc/src/lifecycle"
	"gsc/src/types"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var transitionsCmd = &cobra.Command{
	Use:       "transitions <kind>",
	Short:     "Show the statuses and allowed transitions of an entity kind",
	Args:      cobra.ExactArgs(1),
	ValidArgs: kindNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := types.EntityKind(args[0])
		if !slices.Contains(lifecycle.Kinds(), kind) {
			return fmt.Errorf("unknown kind %q, expected one of %s", args[0], strings.Join(kindNames(), ", "))
		}
		out := cmd.OutOrStdout()
		initial := lifecycle.InitialStatus(kind)
		for _, status := range lifecycle.Statuses(kind) {
			name := status
			switch {
			case status == initial:
				name = color.New(color.FgCyan).Sprint(status + " (initial)")
			case lifecycle.IsTerminal(kind, status):
				name = color.New(color.FgHiBlack).Sprint(status + " (terminal)")
			}
			fmt.Fprintln(out, name)
			for _, to := range lifecycle.AllowedTransitions(kind, status) {
				roles := lifecycle.AllowedRoles(kind, status, to)
				fmt.Fprintf(out, "  -> %s %s\n", to, color.New(color.FgYellow).Sprintf("[%s]", joinRoles(roles)))
			}
		}
		return nil
	},
}

func kindNames() []string {
	names := []string{}
	for _, k := range lifecycle.Kinds() {
		names = append(names, string(k))
	}
	return names
}

func joinRoles(roles []types.Role) string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}
