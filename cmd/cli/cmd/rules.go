package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/angelospk/unpacksort/internal/constants"
)

// starterRules seeds a freshly initialized rules file so the format is
// documented where operators edit it.
const starterRules = `# unpacksort override rules
#
# One rule per line:  pattern|replacement
# Patterns match case-insensitively as substrings of the normalized title;
# the first matching line wins. Lines starting with '#' are ignored.
#
# Examples:
#   the office|The Office (US)
#   bsg|Battlestar Galactica (2003)
`

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the title override rules file",
}

var rulesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter rules file if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := rulesPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Rules file already exists at %s\n", path)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("could not create config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(starterRules), 0644); err != nil {
			return fmt.Errorf("could not write rules file %s: %w", path, err)
		}
		fmt.Printf("Created rules file at %s\n", path)
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current rules file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := rulesPath()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Printf("No rules file at %s. Run `unpacksort rules init` to create one.\n", path)
				return nil
			}
			return fmt.Errorf("could not read rules file %s: %w", path, err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesInitCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	RootCmd.AddCommand(rulesCmd)
}

func rulesPath() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, constants.RulesFileName), nil
}
