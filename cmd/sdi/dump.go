package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sdicode-go/literal"
	"sdicode-go/model"
	"sdicode-go/store"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Show the contents of the image",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := openDevice()
		if err != nil {
			return err
		}
		defer d.Close()
		if _, err := d.st.Boot(); err != nil {
			return err
		}
		render(cmd.OutOrStdout(), d)
		return nil
	},
}

func render(w io.Writer, d *device) {
	row := func(label, value string) {
		fmt.Fprintln(w, labelStyle.Render(label)+valueStyle.Render(value))
	}

	fmt.Fprintln(w, titleStyle.Render(d.in.Model)+subtitleStyle.Render(" "+cfg.Image))
	row("marker", literal.FormatHex(uint64(d.st.Marker())))
	row("state", d.st.State().String())
	row("idn", d.st.IDN())
	row("status", d.st.Status())

	fmt.Fprintln(w, headerStyle.Render("replies"))
	for c := store.Category(0); c < store.NumCategories; c++ {
		row(c.String(), d.st.Reply(c))
	}
	block(w, "config", d.st.Stored(store.Config), d.st.Live(store.Config))
	block(w, "lan", d.st.Stored(store.LAN), d.st.Live(store.LAN))
}

func block(w io.Writer, title string, stored, live *model.Record) {
	if stored == nil {
		return
	}
	fmt.Fprintln(w, headerStyle.Render(title))
	for _, f := range stored.Schema().Fields() {
		vals := make([]string, f.Len())
		for ch := range vals {
			vals[ch], _ = stored.Format(f.Name, ch)
		}
		line := labelStyle.Render(f.Name) + valueStyle.Render(strings.Join(vals, " "))
		if f.RebootGated && !sameField(stored, live, f) {
			line += pendingStyle.Render("  (after reboot)")
		}
		fmt.Fprintln(w, line)
	}
}

func sameField(a, b *model.Record, f *model.Field) bool {
	for ch := 0; ch < f.Len(); ch++ {
		if a.Value(f.Name, ch) != b.Value(f.Name, ch) {
			return false
		}
	}
	return true
}
