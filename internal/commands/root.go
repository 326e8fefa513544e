// Package commands implements the confgen command line.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/confgen/internal/config"
	"github.com/simonhull/confgen/internal/generator"
	"github.com/simonhull/confgen/internal/logger"
	"github.com/simonhull/confgen/internal/output"
	"github.com/simonhull/confgen/internal/request"
)

// generateFlags holds the values bound to the root command's flags.
type generateFlags struct {
	version  string
	region   string
	os       string
	dir      string
	template string
	vars     string
	dryRun   bool
	diff     bool
}

// RootCmd creates the confgen root command. Running it renders one config file.
func RootCmd() *cobra.Command {
	var verbose bool
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "confgen --version VERSION --region REGION --os OS",
		Short: "Render a configuration file from a template",
		Long: `confgen renders configs/config.j2 with the given version, region and
operating system, and writes the result to

  configs/{version}-{region}-{os}.config

The output path is printed on stdout.

Templates ending in .tmpl, .tpl or .gotmpl use Go template syntax
({{ .version }}); everything else uses Jinja syntax ({{ version }}).

Settings can also come from confgen.yml in the working directory or from
CONFGEN_CONFIG_DIR, CONFGEN_TEMPLATE, CONFGEN_EXTENSION and CONFGEN_FILE_MODE.

Examples:
  confgen --version 3.1.4 --region us-east-1 --os ubuntu2004
  confgen --version 3.1.4 --region us-east-1 --os ubuntu2004 --diff
  confgen --version 3.1.4 --region us-east-1 --os ubuntu2004 --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
			if verbose {
				logger.Default().SetLevel(logger.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	flags := cmd.Flags()
	flags.StringVar(&f.version, "version", "", "Version identifier (required)")
	flags.StringVar(&f.region, "region", "", "Target region identifier (required)")
	flags.StringVar(&f.os, "os", "", "Operating system identifier (required)")
	flags.StringVar(&f.dir, "dir", "", "Directory holding the template and receiving the output (default \"configs\")")
	flags.StringVar(&f.template, "template", "", "Template file name inside --dir (default \"config.j2\")")
	flags.StringVar(&f.vars, "vars", "", "YAML file with extra template variables")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Print the rendered config to stdout instead of writing it")
	flags.BoolVar(&f.diff, "diff", false, "Show changes against the existing output file")

	for _, name := range []string{"version", "region", "os"} {
		_ = cmd.MarkFlagRequired(name)
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.AddCommand(VersionCmd())

	return cmd
}

func runGenerate(cmd *cobra.Command, f generateFlags) error {
	// Validate before touching the file system.
	req, err := request.New(f.version, f.region, f.os)
	if err != nil {
		return err
	}

	settings, err := config.Load(".")
	if err != nil {
		return err
	}
	if f.dir != "" {
		settings.ConfigDir = f.dir
	}
	if f.template != "" {
		settings.Template = f.template
	}

	vars, err := config.LoadVars(f.vars)
	if err != nil {
		return err
	}

	output.Verbose(fmt.Sprintf("Rendering %s/%s", settings.ConfigDir, settings.Template))

	gen := generator.New(generator.Options{
		Dir:       settings.ConfigDir,
		Template:  settings.Template,
		Extension: settings.Extension,
		Mode:      settings.FileMode,
		Vars:      vars,
		Logger:    logger.Default(),
	})

	res, err := gen.Generate(cmd.Context(), req, generator.RunOptions{
		DryRun: f.dryRun,
		Diff:   f.diff,
	})
	if err != nil {
		return err
	}

	if f.diff {
		if res.Diff == "" {
			output.Info("No changes to " + res.Path)
		} else {
			output.Raw(res.Diff)
		}
	}

	if f.dryRun {
		_, err := cmd.OutOrStdout().Write(res.Content)
		return err
	}

	output.Verbose(fmt.Sprintf("Wrote %d bytes (mode %s)", len(res.Content), settings.FileMode))
	fmt.Fprintln(cmd.OutOrStdout(), res.Path)
	return nil
}
