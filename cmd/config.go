package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "solvet"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName          = "output"
	formatFlagName          = "format"
	excludeFlagName         = "exclude"
	minSeverityFlagName     = "min-severity"
	excludeDetectorFlagName = "exclude-detector"
	remapFlagName           = "remap"
	workersFlagName         = "workers"
	rootFlagName            = "root"
	noTUIFlagName           = "no-tui"

	scopeConfigKey            = "scope"
	excludeConfigKey          = "exclude"
	minSeverityConfigKey      = "min_severity"
	excludeDetectorsConfigKey = "exclude_detectors"
	remappingsConfigKey       = "remappings"
	workersConfigKey          = "workers"
	formatConfigKey           = "format"
	outputConfigKey           = "output"

	protocolFotKey        = "protocol.fot_tokens"
	protocolWeirdERC20Key = "protocol.weird_erc20"
	protocolNativeKey     = "protocol.native_token"
	protocolL2Key         = "protocol.l2"
	protocolNFTKey        = "protocol.nft"

	defaultFormat      = "md"
	defaultMinSeverity = "nc"
	defaultWorkers     = 0

	envPrefix = "SOLVET"

	logFileKey       = "log_file"
	logLevelKey      = "log_level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".solvet.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(scopeConfigKey, []string{})
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(minSeverityConfigKey, defaultMinSeverity)
	viper.SetDefault(excludeDetectorsConfigKey, []string{})
	viper.SetDefault(remappingsConfigKey, []string{})
	viper.SetDefault(workersConfigKey, defaultWorkers)
	viper.SetDefault(formatConfigKey, defaultFormat)
	viper.SetDefault(outputConfigKey, "")

	// Protocol groups default to on; turn off the ones that do not apply.
	viper.SetDefault(protocolFotKey, true)
	viper.SetDefault(protocolWeirdERC20Key, true)
	viper.SetDefault(protocolNativeKey, true)
	viper.SetDefault(protocolL2Key, true)
	viper.SetDefault(protocolNFTKey, true)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFileKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFileKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
