package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "nodedump",
	Short: "Inspect serialized node records from a page-memory dump",
	Long: `nodedump walks the size-prefixed record frames in a raw page-memory dump and
prints each node's offset, nodeKey, kind, parent key, and content hash. It is a read-only diagnostic
tool: it never opens a live page cache, only flat byte dumps captured from one.`,
	Version:          "0.1.0",
	PersistentPreRun: initLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit one JSON object per node instead of text")
	rootCmd.PersistentFlags().String("config", "", "path to an optional nodedump config file (none is read unless given)")

	viper.SetEnvPrefix("NODEDUMP")
	viper.AutomaticEnv()
}

func initLogging(cmd *cobra.Command, args []string) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose || viper.GetBool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("config", cfgFile).Msg("failed to read config file")
		}
	}
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("nodedump failed")
	}
}
