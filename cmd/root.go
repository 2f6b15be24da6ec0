// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava-labs/srccache/config"
	"github.com/ava-labs/srccache/constant"
)

var (
	homeDir = os.ExpandEnv("$HOME")
	appDir  = filepath.Join(homeDir, fmt.Sprintf(".%s", constant.AppName))

	log = logrus.New()
)

const (
	configFileKey      = "config-file"
	archivesRootKey    = "archives-root"
	credentialsFileKey = "credentials-file"
	stateFileKey       = "state-file"
	metricsFileKey     = "metrics-file"
	logLevelKey        = "log-level"
)

func New(fs afero.Fs) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:           constant.AppName,
		Short:         fmt.Sprintf("%s materializes git references as reusable source archives", constant.AppName),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra only parses flags once Execute is called, so the config
			// has to be read here rather than in New.
			if err := initializeConfig(); err != nil {
				return err
			}

			return initializeLogger(cmd)
		},
	}

	rootCmd.PersistentFlags().String(configFileKey, "", "path to a configuration file")
	rootCmd.PersistentFlags().String(archivesRootKey, filepath.Join(appDir, "archives"), "directory holding the cached archives")
	rootCmd.PersistentFlags().String(credentialsFileKey, "", "path to a YAML file with git credentials")
	rootCmd.PersistentFlags().String(stateFileKey, filepath.Join(appDir, fmt.Sprintf("%s.state", constant.AppName)), "path to the state file")
	rootCmd.PersistentFlags().String(metricsFileKey, "", "write prometheus metrics to this file after each command")
	rootCmd.PersistentFlags().String(logLevelKey, logrus.InfoLevel.String(), "log level")

	errs := wrappers.Errs{}
	errs.Add(
		viper.BindPFlag(configFileKey, rootCmd.PersistentFlags().Lookup(configFileKey)),
		viper.BindPFlag(archivesRootKey, rootCmd.PersistentFlags().Lookup(archivesRootKey)),
		viper.BindPFlag(credentialsFileKey, rootCmd.PersistentFlags().Lookup(credentialsFileKey)),
		viper.BindPFlag(stateFileKey, rootCmd.PersistentFlags().Lookup(stateFileKey)),
		viper.BindPFlag(metricsFileKey, rootCmd.PersistentFlags().Lookup(metricsFileKey)),
		viper.BindPFlag(logLevelKey, rootCmd.PersistentFlags().Lookup(logLevelKey)),
	)
	if errs.Errored() {
		return nil, errs.Err
	}

	rootCmd.AddCommand(
		fetch(fs),
		list(fs),
		verify(fs),
	)

	return rootCmd, nil
}

// initializes config from file and environment.
func initializeConfig() error {
	viper.SetEnvPrefix(constant.AppName)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if viper.GetString(configFileKey) != "" {
		cfgFile := os.ExpandEnv(viper.GetString(configFileKey))
		viper.SetConfigFile(cfgFile)

		return viper.ReadInConfig()
	}

	return nil
}

func initializeLogger(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(viper.GetString(logLevelKey))
	if err != nil {
		return err
	}

	log.SetLevel(level)
	log.SetOutput(cmd.ErrOrStderr())

	return nil
}

func loadConfig(fs afero.Fs) (config.Config, error) {
	result := config.Config{
		ArchivesRoot: os.ExpandEnv(viper.GetString(archivesRootKey)),
		StateFile:    os.ExpandEnv(viper.GetString(stateFileKey)),
		MetricsFile:  os.ExpandEnv(viper.GetString(metricsFileKey)),
		LogLevel:     log.GetLevel(),
	}

	// Custom git credentials, say for private repos. Without them every
	// clone and fetch is anonymous.
	if credentialsFile := viper.GetString(credentialsFileKey); credentialsFile != "" {
		credentials, err := config.ReadCredential(fs, os.ExpandEnv(credentialsFile))
		if err != nil {
			return result, err
		}
		result.Credentials = credentials
	}

	if err := result.Normalize(); err != nil {
		return result, err
	}

	return result, nil
}
