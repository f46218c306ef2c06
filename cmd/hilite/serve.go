package main

import (
	"fmt"
	"runtime"

	"hilite/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server",
	Long:  `Runs the server over stdio, or over TCP or WebSocket when an address is given.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("logfile", "", "Path to log file")
	serveCmd.Flags().CountP("verbose", "v", "Log more (repeatable)")
	serveCmd.Flags().String("tcp", "", "Listen on this TCP address instead of stdio")
	serveCmd.Flags().String("websocket", "", "Listen on this WebSocket address instead of stdio")
	bindFlags(serveCmd, "logfile", "verbose", "tcp", "websocket")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// 2 Cores
	runtime.GOMAXPROCS(2)

	// Logging
	var logfile *string
	if path := viper.GetString("logfile"); path != "" {
		logfile = &path
	}
	commonlog.Configure(1+viper.GetInt("verbose"), logfile)

	log := commonlog.GetLogger("hilite")
	log.Infof("starting hilite %s", Version)

	ls := server.NewServer(Version)

	tcp, websocket := viper.GetString("tcp"), viper.GetString("websocket")
	switch {
	case tcp != "" && websocket != "":
		return fmt.Errorf("--tcp and --websocket are exclusive")
	case tcp != "":
		return ls.RunTCP(tcp)
	case websocket != "":
		return ls.RunWebSocket(websocket)
	default:
		return ls.RunStdio()
	}
}
