package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	rootCmd.SetFlagErrorFunc(flagErrorWithSuggestion)
}

// flagErrorWithSuggestion enhances "unknown flag" errors with did-you-mean suggestions.
func flagErrorWithSuggestion(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}

	name := unknownFlagName(err.Error())
	if name == "" {
		return err
	}
	if best := closestFlag(name, cmd.Flags(), cmd.InheritedFlags()); best != "" {
		return fmt.Errorf("%w\n\nDid you mean: --%s?", err, best)
	}
	return err
}

// unknownFlagName extracts the flag from "unknown flag: --name" or
// "unknown shorthand flag: 'x' in -x".
func unknownFlagName(msg string) string {
	switch {
	case strings.HasPrefix(msg, "unknown flag: "):
		return strings.TrimLeft(strings.TrimPrefix(msg, "unknown flag: "), "-")
	case strings.HasPrefix(msg, "unknown shorthand flag: "):
		rest := strings.TrimPrefix(msg, "unknown shorthand flag: ")
		if i := strings.Index(rest, " in "); i >= 0 {
			rest = rest[:i]
		}
		return strings.Trim(rest, "' ")
	}
	return ""
}

// closestFlag returns the flag name nearest to name, or "" if none is close.
func closestFlag(name string, sets ...*pflag.FlagSet) string {
	var bestName string
	bestDist := -1

	for _, set := range sets {
		set.VisitAll(func(f *pflag.Flag) {
			d := editDistance(name, f.Name)
			threshold := max(2, len(f.Name)*4/10)
			if d <= threshold && (bestDist < 0 || d < bestDist) {
				bestDist = d
				bestName = f.Name
			}
		})
	}
	return bestName
}

// editDistance is the optimal string alignment distance between a and b:
// insertions, deletions, substitutions and swaps of adjacent runes each cost one.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// rows i-2, i-1 and i of the distance matrix
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(rb)]
}
