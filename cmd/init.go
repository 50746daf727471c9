package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initInteractiveFlag bool
var initForceFlag bool

// initConfig mirrors the solvet.yaml layout written by the init command.
type initConfig struct {
	Version          int                `yaml:"version"`
	Scope            []string           `yaml:"scope"`
	Exclude          []string           `yaml:"exclude"`
	MinSeverity      string             `yaml:"min_severity"`
	ExcludeDetectors []string           `yaml:"exclude_detectors"`
	Remappings       []string           `yaml:"remappings"`
	Workers          int                `yaml:"workers"`
	Format           string             `yaml:"format"`
	Output           string             `yaml:"output"`
	LogLevel         string             `yaml:"log_level"`
	LogFile          string             `yaml:"log_file"`
	Protocol         initProtocolConfig `yaml:"protocol"`
}

type initProtocolConfig struct {
	FotTokens   bool `yaml:"fot_tokens"`
	WeirdERC20  bool `yaml:"weird_erc20"`
	NativeToken bool `yaml:"native_token"`
	L2          bool `yaml:"l2"`
	NFT         bool `yaml:"nft"`
}

const initConfigHeader = `# solvet configuration. Flags and SOLVET_* environment variables
# override these values.
#
# scope:             files or directories to analyze (empty = project root)
# exclude:           path patterns skipped during discovery
# min_severity:      high | medium | low | gas | nc
# exclude_detectors: detector ids to skip (see "solvet detectors")
# remappings:        extra import remappings in prefix=target form
# workers:           parallel workers (0 = all CPUs)
# format:            md | json | sarif
# protocol:          feature gates; disable groups that do not apply
`

func defaultInitConfig() initConfig {
	return initConfig{
		Version:          currentConfigVersion,
		Scope:            []string{},
		Exclude:          []string{},
		MinSeverity:      defaultMinSeverity,
		ExcludeDetectors: []string{},
		Remappings:       []string{},
		Workers:          defaultWorkers,
		Format:           defaultFormat,
		Output:           "",
		LogLevel:         "info",
		LogFile:          defaultLogFilename,
		Protocol: initProtocolConfig{
			FotTokens:   true,
			WeirdERC20:  true,
			NativeToken: true,
			L2:          true,
			NFT:         true,
		},
	}
}

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default solvet.yaml configuration file",
		Long: `Create a solvet.yaml in the current working directory populated with the
current CLI defaults so it can be edited manually. With --interactive the
protocol feature gates are asked for instead of defaulting to on.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			if !initForceFlag {
				if _, err := os.Stat(targetPath); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", targetPath)
				}
			}

			cfg := defaultInitConfig()

			if initInteractiveFlag {
				if err := askProtocolFeatures(&cfg.Protocol); err != nil {
					return err
				}
			}

			return writeInitConfig(targetPath, cfg)
		},
	}

	cmd.Flags().BoolVarP(&initInteractiveFlag, "interactive", "i", false, "ask which protocol features apply")
	cmd.Flags().BoolVar(&initForceFlag, "force", false, "overwrite an existing config file")

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func askProtocolFeatures(protocol *initProtocolConfig) error {
	selected := []string{}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which protocol features apply?").
				Description("Detectors for unselected groups are skipped.").
				Options(
					huh.NewOption("Fee-on-transfer tokens", "fot"),
					huh.NewOption("Non-standard ERC20 tokens", "weird-erc20"),
					huh.NewOption("Native token handling", "native"),
					huh.NewOption("L2 deployment", "l2"),
					huh.NewOption("NFTs", "nft"),
				).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive setup aborted: %w", err)
	}

	*protocol = initProtocolConfig{}
	for _, feature := range selected {
		switch feature {
		case "fot":
			protocol.FotTokens = true
		case "weird-erc20":
			protocol.WeirdERC20 = true
		case "native":
			protocol.NativeToken = true
		case "l2":
			protocol.L2 = true
		case "nft":
			protocol.NFT = true
		}
	}

	return nil
}

func writeInitConfig(path string, cfg initConfig) error {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	contents := append([]byte(initConfigHeader+"\n"), body...)

	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
