package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/cppgrade/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/cppgrade/internal/domain-orchestrators"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
	"github.com/ochairo/cppgrade/internal/domain/services"
	"github.com/ochairo/cppgrade/internal/external-adapters/gpg"
)

func newBuildCmd(setup func() (*app, error)) *cobra.Command {
	var keyring string

	cmd := &cobra.Command{
		Use:   "build <input_dir> <output_dir>",
		Short: "Extract and build every submission archive",
		Long: `Recursively finds .tar.gz, .tgz and .zip archives under input_dir,
extracts each into output_dir (keeping the input's directory structure),
normalizes the layout, locates the entry-point file and runs the configure
and compile steps in a fresh build directory.

Failures of individual archives are logged and the batch continues.

Examples:
  cppgrade build submissions/ out/
  cppgrade build submissions/ out/ --keyring graders.asc
  cppgrade build submissions/ out/ --profile grading.yml --verbose`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}

			var verifier orchestrators.SignatureVerifier
			if keyring != "" {
				v, err := gpg.NewVerifierFromKeyring(keyring)
				if err != nil {
					return fmt.Errorf("failed to load keyring: %w", err)
				}
				a.logger.Info("signature verification enabled", interfaces.F("keys", v.GetKeyringSize()))
				verifier = v
			}

			profile := a.profile
			executor := gateways.NewCommandExecutor(a.logger)
			orch := orchestrators.NewBatchOrchestrator(
				gateways.NewArchiveExtractor(profile.Archives.Extensions, a.logger),
				gateways.NewLayoutNormalizer(profile.Layout.SubmissionMarker, a.logger),
				gateways.NewProjectLocator(profile.EntryPoint, a.logger),
				gateways.NewBuildRunner(executor, services.NewWarningFilter(profile.WarningFilter), profile.Build, a.logger),
				verifier,
				orchestrators.BatchOrchestratorConfig{BuildDirName: profile.Build.Directory},
				a.logger,
			)

			result, err := orch.Run(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, result.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&keyring, "keyring", "", "OpenPGP keyring; archives must carry a valid <archive>.sig or <archive>.asc")
	return cmd
}
