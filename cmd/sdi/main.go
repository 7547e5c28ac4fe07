// Command sdi emulates an SDI instrument on a host and manages its
// persistent image.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version is set via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "sdi",
	Short: "SDI instrument emulator and image tool",
	Long: titleStyle.Render("sdi") + subtitleStyle.Render(" - SDI instrument emulator") + `

Serves the SCPI-style command language of the pulse generator, digital I/O
and trigger detector instruments over TCP or a serial port, backed by an
image file laid out like the instrument EEPROM.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "config file (default ./sdi.yaml)")
	f.StringP("instrument", "i", "pulsegen", "instrument variant")
	f.String("image", "", "persistent image file (default sdi-<instrument>.img)")
	f.String("profile", "", "provisioning profile override (.yaml or .toml)")
	f.String("log-level", "info", "log level")

	rootCmd.AddCommand(serveCmd, provisionCmd, dumpCmd, queryCmd)
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
