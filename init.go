package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/logmagic/internal/config"
)

const (
	sentinelStart = "# logmagic:start"
	sentinelEnd   = "# logmagic:end"
)

// initCmd implements `logmagic init`, which writes (or updates) a block of
// default settings in a .logmagic.yaml file.
func (a *app) initCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "init [path-to-config]",
		Short: "Write the default settings to a .logmagic.yaml file",
		Long: `Write a block of logmagic settings to a config file. The block is wrapped
in sentinel comments so it can be updated in place on subsequent runs without
touching surrounding content. Creates the file if it does not exist.

path-to-config defaults to ./.logmagic.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(args, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

func (a *app) runInit(args []string, dryRun bool) error {
	section, err := generateSection(config.Default())
	if err != nil {
		return err
	}

	// --dry-run with no path: just print the section itself.
	if dryRun && len(args) == 0 {
		_, _ = fmt.Fprintln(a.stdout, section)
		return nil
	}

	path := config.FileName + ".yaml"
	if len(args) > 0 {
		path = args[0]
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(a.stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	a.logger.WithField("file", path).Info("wrote logmagic settings")
	return nil
}

// generateSection returns the sentinel-wrapped settings block for cfg.
func generateSection(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	header := `# Settings for logmagic. Every key can also be set from the environment
# with the ` + config.EnvPrefix + `_ prefix, e.g. ` + config.EnvPrefix + `_DEFAULT_LOG_LEVEL=debug.
`
	return sentinelStart + "\n" + header + strings.TrimRight(string(data), "\n") + "\n" + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	if content == "" {
		return section + "\n"
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
