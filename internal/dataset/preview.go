package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
)

// DefaultPreviewRows is how many rows Preview prints by default.
const DefaultPreviewRows = 10

// Preview prints the header and the first n rows as an aligned table, with a
// leading row index, followed by the table shape.
func Preview(w io.Writer, table *models.Table, n int) error {
	if n < 0 {
		n = 0
	}
	if n > len(table.Rows) {
		n = len(table.Rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\t"+joinCells(table.Header))
	for i := 0; i < n; i++ {
		fmt.Fprintln(tw, strconv.Itoa(i)+"\t"+joinCells(table.Rows[i]))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if rest := len(table.Rows) - n; rest > 0 {
		if _, err := fmt.Fprintf(w, "... %d more rows\n", rest); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n[%d rows x %d columns]\n", len(table.Rows), len(table.Header))
	return err
}

func joinCells(cells []string) string {
	cleaned := make([]string, len(cells))
	for i, c := range cells {
		// Tabs and newlines inside a cell would break the alignment.
		cleaned[i] = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(c)
	}
	return strings.Join(cleaned, "\t")
}
