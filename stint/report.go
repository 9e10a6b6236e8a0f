package stint

import (
	"fmt"
	"math"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// Report prints the snapshot rooted at tree as a table, one row per region,
// children indented under their parent.
func Report(tree *TreeNode) {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()

	tbl := table.New(
		"region",
		"total",
		"self",
		"count",
		"share",
	)
	tbl.WithHeaderFormatter(headerFmt)

	addRows(tbl, tree, "", tree.Total)

	color.New(color.FgGreen).Add(color.Bold).Printf("\n\u23f1 Timing tree\n")
	tbl.Print()
}

func addRows(tbl table.Table, node *TreeNode, indent string, rootTotal float64) {
	name := node.Name
	if name == "" {
		name = "root"
	}

	share := 0.0
	if rootTotal > 0 {
		share = math.Floor(node.Total/rootTotal*1000) / 1000
	}

	tbl.AddRow(
		indent+name,
		fmt.Sprintf("%.3fs", node.Total),
		fmt.Sprintf("%.3fs", node.Self),
		node.Count,
		share,
	)

	for _, child := range node.Children {
		addRows(tbl, child, indent+"  ", rootTotal)
	}
}
