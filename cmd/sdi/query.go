package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sdicode-go/errcode"
	"sdicode-go/session"
)

var queryCmd = &cobra.Command{
	Use:   "query LINE...",
	Short: "Run command lines against the image and print the replies",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDevice()
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.boot(); err != nil {
			return err
		}

		s := session.New(session.Config{Instrument: d.in, Store: d.st, Logger: logger})
		out := cmd.OutOrStdout()
		for _, line := range args {
			r := s.Execute(line)
			if r.Code == errcode.NoCommand {
				continue
			}
			text := r.Text
			if r.Code.Failure() {
				text = warnStyle.Render(text)
			}
			fmt.Fprintln(out, subtitleStyle.Render(line+" -> ")+text)
			if r.Reboot {
				break
			}
		}
		return nil
	},
}
