package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/commonsbots/geograph-sync/internal/geodb"
	"github.com/commonsbots/geograph-sync/internal/model"
	"github.com/commonsbots/geograph-sync/internal/template"
)

var statusCmd = &cobra.Command{
	Use:   "status <gridimage id>",
	Short: "Show the database row and derived candidates for one image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return eris.Wrapf(err, "status: parse gridimage id %q", args[0])
		}

		db, err := geodb.Open(cfg.Geodb.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		row, err := db.Lookup(cmd.Context(), id)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "gridimage\t%d\n", row.GridimageID)
		fmt.Fprintf(w, "title\t%s\n", row.Title)
		fmt.Fprintf(w, "author\t%s\n", row.RealName)
		fmt.Fprintf(w, "moderation\t%s\n", row.ModerationStatus)
		fmt.Fprintf(w, "updated\t%s\n", row.UpdTimestamp.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "reference\t%s\n", template.FormatRow(row))
		printLocation(w, "camera", template.CameraFromRow(row))
		printLocation(w, "object", template.ObjectFromRow(row))
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printLocation(w *tabwriter.Writer, slot string, loc *model.Location) {
	if loc == nil {
		fmt.Fprintf(w, "%s\t(none)\n", slot)
		return
	}
	fmt.Fprintf(w, "%s\t%g, %g ±%d m (%s)", slot, loc.Lat, loc.Lon, loc.Precision, loc.Source)
	if loc.Heading != nil {
		fmt.Fprintf(w, " heading %g", *loc.Heading)
	}
	fmt.Fprintln(w)
}
