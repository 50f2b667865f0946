package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionFlagShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build info",
	Long:  `Display version information including git revision, build time and Go version.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := readBuild()
		if versionFlagShort {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), b.version)
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), b.String())
		return err
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFlagShort, "short", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}

type build struct {
	version   string
	revision  string
	time      string
	modified  bool
	goVersion string
}

func readBuild() build {
	b := build{version: "dev"}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.version = info.Main.Version
	}
	b.goVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.revision = s.Value[:min(7, len(s.Value))]
		case "vcs.time":
			b.time = s.Value
		case "vcs.modified":
			b.modified = s.Value == "true"
		}
	}
	return b
}

func (b build) String() string {
	parts := []string{"termkit", b.version}
	if b.revision != "" {
		parts = append(parts, b.revision)
	}
	if b.modified {
		parts = append(parts, "(modified)")
	}
	if b.time != "" {
		parts = append(parts, "built", b.time)
	}
	if b.goVersion != "" {
		parts = append(parts, "with", b.goVersion)
	}
	return strings.Join(parts, " ")
}

func versionString() string {
	return readBuild().String()
}
