package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"

	"github.com/oukeidos/guini/internal/fieldtype"
	"github.com/oukeidos/guini/internal/form"
)

const maxCellWidth = 40

func newFieldsCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields <config.ini>",
		Short: "List the form fields generated from an INI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadForm(args[0], nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheme: %s\n\n", l.form.Scheme)
			writeFieldTable(cmd.OutOrStdout(), l.form.Fields, l.values)
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func writeFieldTable(w io.Writer, fields []form.Field, values form.Values) {
	header := []string{"SECTION", "KEY", "LABEL", "TYPE", "VALUE", "FLAG"}
	rows := [][]string{header}
	for _, fd := range fields {
		value := values[fd.Ref()]
		if fd.Type.Kind == fieldtype.Secret && value != "" {
			value = "********"
		}
		rows = append(rows, []string{
			fd.Section,
			fd.Key,
			truncate(fd.Label, maxCellWidth),
			fd.Type.String(),
			truncate(value, maxCellWidth),
			fd.Flag,
		})
	}

	widths := make([]int, len(header))
	for _, r := range rows {
		for i, c := range r {
			if n := uniseg.StringWidth(c); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for ri, r := range rows {
		var b strings.Builder
		for i, c := range r {
			if i == len(r)-1 {
				b.WriteString(c)
				break
			}
			b.WriteString(padRight(c, widths[i]+2))
		}
		line := strings.TrimRight(b.String(), " ")
		if ri == 0 {
			line = headerStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}
