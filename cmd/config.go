package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/runar-rkmedia/termkit/config"
	"github.com/runar-rkmedia/termkit/git"
	"github.com/runar-rkmedia/termkit/term"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFlagFormat    string
	configFlagLocations bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Display the effective configuration after merging all sources.

Shows the final configuration values that will be used, combining:
- Default values
- An explicit file from --config or TERMKIT_CONFIG, which replaces discovery
- User config (~/.config/.termkit/config.toml)
- Parent directory configs
- Git root config
- Current directory config
- Environment variables (TERMKIT_*)
- Command-line flags`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVarP(&configFlagFormat, "format", "f", "toml", "Output format: toml, json, yaml")
	configCmd.Flags().BoolVar(&configFlagLocations, "locations", false, "Show config file locations instead of values")
	_ = configCmd.RegisterFlagCompletionFunc("format", completeValues("toml", "json", "yaml"))
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configFlagLocations {
		return showLocations(cmd)
	}

	return showConfig(cmd)
}

func showLocations(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	gitRoot, _ := git.FindRootFrom(cwd)
	locations := config.FindLocations(cwd, gitRoot)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Config file locations (in merge order):")
	fmt.Fprintln(out)

	if explicit, ok := config.ExplicitLocation(flagConfigFile, os.Getenv); ok {
		printLocation(out, explicit)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Discovery is skipped while an explicit file is set; it would read:")
	}
	for _, loc := range locations {
		printLocation(out, loc)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "History database:")
	printLocation(out, GetConfig().HistoryLocation(git.RootOrDir(cwd)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Environment variables: %s* (e.g., %sVERBOSE, %sINPUT_REPEAT_THRESHOLD)\n",
		config.EnvPrefix, config.EnvPrefix, config.EnvPrefix)

	return nil
}

func printLocation(out io.Writer, loc config.Location) {
	status := term.Color(term.ColorDim) + "(not found)" + term.Color(term.ColorReset)
	if loc.Exists {
		status = term.Color(term.ColorGreen) + "(found)" + term.Color(term.ColorReset)
	}
	fmt.Fprintf(out, "  [%s] %s %s\n", loc.Source, loc.Path, status)
}

func showConfig(cmd *cobra.Command) error {
	c := GetConfig()

	var output []byte
	var err error

	switch configFlagFormat {
	case "json":
		output, err = json.MarshalIndent(c, "", "  ")
	case "yaml", "yml":
		output, err = yaml.Marshal(c)
	case "toml":
		output, err = toml.Marshal(c)
	default:
		return fmt.Errorf("unknown format %q (want toml, json or yaml)", configFlagFormat)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return err
}
