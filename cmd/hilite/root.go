package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "hilite",
	Short: "Persistent text highlights for any LSP client",
	Long: `hilite is a language server that lets you mark ranges of text with
colored highlights, saved per project under .vscode/.`,
	SilenceUsage: true,
}

func init() {
	viper.SetEnvPrefix("hilite")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindFlags exposes every flag of cmd through viper, so HILITE_<FLAG> can
// set it too.
func bindFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}
