// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Command fileconv converts files between document, data and image formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fileconv",
	Short: "Convert files between document, data and image formats",
	Long: `fileconv converts a file to another format. Image and spreadsheet/CSV/JSON
conversions run locally; everything else is reconstructed by a remote model,
which needs an API key (FILECONV_API_KEY, GEMINI_API_KEY or "fileconv key set").`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./fileconv.yaml or ~/.config/fileconv/fileconv.yaml)")
	pf.BoolP("verbose", "v", false, "log every conversion step")
	pf.String("provider", "", "reasoning service provider: googleai or anthropic")
	pf.String("model", "", "reasoning service model")
	pf.String("credentials-db", "", "credential database path")

	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("provider", pf.Lookup("provider"))
	_ = viper.BindPFlag("model", pf.Lookup("model"))
	_ = viper.BindPFlag("credentials_db", pf.Lookup("credentials-db"))
}

func initConfig() {
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("fileconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			viper.AddConfigPath(dir)
		}
	}

	viper.SetEnvPrefix("FILECONV")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fileconv"), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
