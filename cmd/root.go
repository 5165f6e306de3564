package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	reborn "github.com/AidanDelaney/reborn/pkg"
)

const (
	outputFolderFlag = "output-folder"
	overrideFlag     = "override"
	answersFlag      = "answers"
	templatesFlag    = "templates"
	skipInstallFlag  = "skip-install"
)

var (
	rootCmd = &cobra.Command{
		Use:          "reborn",
		Short:        "A front-end website generator",
		Long:         `Reborn creates a new website project, optionally with Angular, a responsive framework, a style guide and tests.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := reborn.NewReborn()
			outputDir, err := cmd.Flags().GetString(outputFolderFlag)
			if err == nil {
				reborn.WithOutputFolder(outputDir)(&r)
			}
			overrides, err := cmd.Flags().GetStringToString(overrideFlag)
			if err == nil {
				reborn.WithOverrides(overrides)(&r)
			}
			answers, err := cmd.Flags().GetString(answersFlag)
			if err == nil {
				reborn.WithAnswersFile(answers)(&r)
			}
			templates, err := cmd.Flags().GetString(templatesFlag)
			if err == nil {
				reborn.WithTemplates(templates)(&r)
			}
			skipInstall, err := cmd.Flags().GetBool(skipInstallFlag)
			if err == nil {
				reborn.WithSkipInstall(skipInstall)(&r)
			}

			return r.Scaffold(cmd.Context())
		},
	}
)

func init() {
	rootCmd.Flags().String(outputFolderFlag, ".", "scaffold project in the provided output directory")
	rootCmd.Flags().StringToStringP(overrideFlag, "o", map[string]string{}, "provide answers as key-value pairs")
	rootCmd.Flags().String(answersFlag, "", "read answers from a TOML file")
	rootCmd.Flags().String(templatesFlag, "", "generate from a local folder or git repository instead of the built-in templates")
	rootCmd.Flags().Bool(skipInstallFlag, false, "do not install dependencies")
}

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
