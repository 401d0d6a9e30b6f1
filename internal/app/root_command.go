package app

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tyemirov/rootbundle/internal/provision"
	"github.com/tyemirov/rootbundle/pkg/logging"
)

const (
	logFieldBundlePath = "bundle_path"
	logFieldPlatform   = "platform"
	logFieldGit        = "git"
)

func newRootCommand(resources *applicationResources) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   defaultApplicationName,
		Short: "Build a custom root certificate bundle and point local tools at it",
		Long: heredoc.Doc(`
			Collects the trusted root certificates of the operating system, places the
			certificates of an optional PEM file in front of them and writes the result to
			custom-root-bundle.pem in the system certificate directory.

			The bundle is then exported to curl, wget, OpenSSL, Python requests/pip and
			Node.js/npm through SSL_CERT_FILE, SSL_CERT_DIR, REQUESTS_CA_BUNDLE and
			NODE_EXTRA_CA_CERTS, and Git's http.sslcainfo is set when git is installed.

			Run as root or Administrator. Profile exports are appended on every run.
		`),
		Example: heredoc.Doc(`
			$ sudo rootbundle
			$ sudo rootbundle --cert-file ./corporate-roots.pem
		`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfigurationFile(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd)
		},
	}

	bundleFlags := pflag.NewFlagSet("bundle", pflag.ContinueOnError)
	configureBundleFlags(bundleFlags, resources.configurationManager)
	rootCommand.Flags().AddFlagSet(bundleFlags)

	rootCommand.PersistentFlags().String(flagNameConfigFile, "", "Path to configuration file")

	return rootCommand
}

func configureBundleFlags(flagSet *pflag.FlagSet, configurationManager *viper.Viper) {
	flagSet.StringP(flagNameCertificateFile, "c", configurationManager.GetString(configKeyCertificateFile), "PEM formatted certificate file to combine with the system root certificates")
	flagSet.String(flagNameLoggingType, configurationManager.GetString(configKeyLoggingType), "Logging type (CONSOLE or JSON)")
	_ = configurationManager.BindPFlag(configKeyCertificateFile, flagSet.Lookup(flagNameCertificateFile))
	_ = configurationManager.BindPFlag(configKeyLoggingType, flagSet.Lookup(flagNameLoggingType))
}

func runProvision(cmd *cobra.Command) error {
	resources, err := getApplicationResources(cmd)
	if err != nil {
		return err
	}
	request := provision.Request{
		CertificateFile: resources.configurationManager.GetString(configKeyCertificateFile),
	}
	provisioner := provision.NewProvisioner(resources.platform, resources.provisioningDependencies())
	report, runErr := provisioner.Run(cmd.Context(), request)
	if runErr != nil {
		return runErr
	}
	if report.BundlePath == "" {
		return nil
	}
	logProvisionSummary(resources, report)
	return nil
}

func logProvisionSummary(resources *applicationResources, report provision.Report) {
	if resources.loggingService.Type() == logging.TypeConsole {
		resources.loggingService.Info(fmt.Sprintf("certificate bundle configured (%s) git=%s", report.BundlePath, report.Git))
		return
	}
	resources.loggingService.Info("certificate bundle configured",
		logging.String(logFieldBundlePath, report.BundlePath),
		logging.String(logFieldPlatform, report.Platform.String()),
		logging.String(logFieldGit, report.Git.String()),
	)
}
