package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"solvet.dev/pkg/solvet/internal/adapter"
	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/controller"
	"solvet.dev/pkg/solvet/internal/detectors"
	"solvet.dev/pkg/solvet/internal/model"
	"solvet.dev/pkg/solvet/internal/report"
)

var analyzeMinSeverityFlag string
var analyzeExcludeDetectorsFlag []string
var analyzeRemapFlag []string
var analyzeWorkersFlag int
var analyzeFormatFlag string
var analyzeOutputFlag string
var analyzeRootFlag string
var analyzeNoTUIFlag bool

var analyzeFotFlag bool
var analyzeWeirdERC20Flag bool
var analyzeNativeFlag bool
var analyzeL2Flag bool
var analyzeNFTFlag bool

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze Solidity sources",
		Long: `Parse the given files or directories, resolve their imports and
inheritance, and run every enabled detector over them.

` + scopeArgsHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger(viper.GetString(logFileKey), false)

			cfg, err := buildAnalysisConfig(args)
			if err != nil {
				return err
			}

			format := viper.GetString(formatConfigKey)
			if !report.KnownFormat(format) {
				return fmt.Errorf("unknown output format %q (want md, json or sarif)", format)
			}

			out, closeOut, err := openOutput(cmd, viper.GetString(outputConfigKey))
			if err != nil {
				return err
			}
			defer closeOut()

			interactive := controller.IsTTY(os.Stderr) && !analyzeNoTUIFlag
			ui := controller.NewUI(os.Stderr, interactive)
			engine := analysis.NewEngine(adapter.NewSourceFS(), detectors.Registry(), ui)

			_, err = controller.New(engine, ui).Run(cmd.Context(), cfg, format, out)

			return err
		},
	}

	configureAnalyzeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func configureAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&analyzeMinSeverityFlag, minSeverityFlagName, "m", viper.GetString(minSeverityConfigKey), "lowest severity to report (high, medium, low, gas, nc)")
	bindFlagToConfig(cmd.Flags().Lookup(minSeverityFlagName), minSeverityConfigKey)

	cmd.Flags().StringArrayVarP(&analyzeExcludeDetectorsFlag, excludeDetectorFlagName, "d", viper.GetStringSlice(excludeDetectorsConfigKey), "detector id to skip (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(excludeDetectorFlagName), excludeDetectorsConfigKey)

	cmd.Flags().StringArrayVar(&analyzeRemapFlag, remapFlagName, viper.GetStringSlice(remappingsConfigKey), "import remapping in prefix=target form (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(remapFlagName), remappingsConfigKey)

	cmd.Flags().IntVarP(&analyzeWorkersFlag, workersFlagName, "w", viper.GetInt(workersConfigKey), "number of parallel workers (0 = all CPUs)")
	bindFlagToConfig(cmd.Flags().Lookup(workersFlagName), workersConfigKey)

	cmd.Flags().StringVarP(&analyzeFormatFlag, formatFlagName, "f", viper.GetString(formatConfigKey), "report format: md, json or sarif")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), formatConfigKey)

	cmd.Flags().StringVarP(&analyzeOutputFlag, outputFlagName, "o", viper.GetString(outputConfigKey), "write the report to this file instead of stdout")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), outputConfigKey)

	cmd.Flags().StringVar(&analyzeRootFlag, rootFlagName, "", "project root (default: auto-detected from the scope)")

	cmd.Flags().BoolVar(&analyzeNoTUIFlag, noTUIFlagName, false, "disable the interactive progress display")

	cmd.Flags().BoolVar(&analyzeFotFlag, "fot", viper.GetBool(protocolFotKey), "enable fee-on-transfer token detectors")
	bindFlagToConfig(cmd.Flags().Lookup("fot"), protocolFotKey)

	cmd.Flags().BoolVar(&analyzeWeirdERC20Flag, "weird-erc20", viper.GetBool(protocolWeirdERC20Key), "enable non-standard ERC20 detectors")
	bindFlagToConfig(cmd.Flags().Lookup("weird-erc20"), protocolWeirdERC20Key)

	cmd.Flags().BoolVar(&analyzeNativeFlag, "native", viper.GetBool(protocolNativeKey), "enable native token handling detectors")
	bindFlagToConfig(cmd.Flags().Lookup("native"), protocolNativeKey)

	cmd.Flags().BoolVar(&analyzeL2Flag, "l2", viper.GetBool(protocolL2Key), "enable L2 deployment detectors")
	bindFlagToConfig(cmd.Flags().Lookup("l2"), protocolL2Key)

	cmd.Flags().BoolVar(&analyzeNFTFlag, "nft", viper.GetBool(protocolNFTKey), "enable NFT detectors")
	bindFlagToConfig(cmd.Flags().Lookup("nft"), protocolNFTKey)
}

// buildAnalysisConfig resolves flags, env and config file into one run config.
func buildAnalysisConfig(args []string) (analysis.Config, error) {
	minSeverity, err := model.ParseSeverity(viper.GetString(minSeverityConfigKey))
	if err != nil {
		return analysis.Config{}, err
	}

	scope := args
	if len(scope) == 0 {
		scope = viper.GetStringSlice(scopeConfigKey)
	}

	return analysis.Config{
		Scope:            scope,
		Exclude:          viper.GetStringSlice(excludeConfigKey),
		MinSeverity:      minSeverity,
		ExcludeDetectors: viper.GetStringSlice(excludeDetectorsConfigKey),
		Remappings:       viper.GetStringSlice(remappingsConfigKey),
		Root:             analyzeRootFlag,
		Workers:          viper.GetInt(workersConfigKey),
		Flags: analysis.Flags{
			FeeOnTransfer: viper.GetBool(protocolFotKey),
			WeirdERC20:    viper.GetBool(protocolWeirdERC20Key),
			NativeToken:   viper.GetBool(protocolNativeKey),
			L2:            viper.GetBool(protocolL2Key),
			NFT:           viper.GetBool(protocolNFTKey),
		},
		Version: toolVersion(),
	}, nil
}

// openOutput returns the report writer and a close function. An empty path
// means the command's stdout.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open output file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
