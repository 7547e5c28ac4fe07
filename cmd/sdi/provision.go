package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sdicode-go/services/provision"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Write the identification string and reply texts into the image",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := openDevice()
		if err != nil {
			return err
		}
		defer d.Close()

		if idn, _ := cmd.Flags().GetString("idn"); idn != "" {
			d.profile = d.profile.Merge(&provision.Profile{IDN: idn})
		}
		if _, err := d.st.Boot(); err != nil {
			return err
		}
		if err := provision.Apply(d.st, d.profile); err != nil {
			return err
		}
		if reset, _ := cmd.Flags().GetBool("factory"); reset {
			if err := d.st.Invalidate(); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("provisioned ")+valueStyle.Render(d.st.IDN()))
		return nil
	},
}

func init() {
	provisionCmd.Flags().String("idn", "", "override the identification string")
	provisionCmd.Flags().Bool("factory", false, "also force defaults on next boot")
}
