// Command flowc-dump loads a binary flow IR file, runs the analysis
// pipeline over it, and prints either a full textual dump or a summary
// table.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/gomlx/flowc/analyze"
	"github.com/gomlx/flowc/extract"
	"github.com/gomlx/flowc/flow"
	"github.com/gomlx/flowc/rewrite"
)

var (
	flagBatchSize      = flag.Int("batch_size", 1, "Value substituted for a leading dimension of -1 when loading the flow file.")
	flagNoops          = flag.String("noops", "Identity", "Comma-separated list of operation type names eliminated as no-ops during analysis.")
	flagNoAnalyze      = flag.Bool("no_analyze", false, "Skip boundary inference, rewriting, scheduling and type inference; dump the flow exactly as loaded.")
	flagSummary        = flag.Bool("summary", false, "Print a summary table instead of the full textual dump.")
	flagExtractInputs  = flag.String("extract_inputs", "", "Comma-separated variable names to cut extraction at; with -extract_outputs, dump only the extracted subgraph.")
	flagExtractOutputs = flag.String("extract_outputs", "", "Comma-separated variable names to extract a subgraph ending at, instead of dumping the whole flow.")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		klog.Errorf("usage: flowc-dump [flags] <flow-file>")
		os.Exit(1)
	}

	f, err := flow.Load(args[0], *flagBatchSize)
	if err != nil {
		klog.Errorf("failed to load %q: %v", args[0], err)
		os.Exit(1)
	}

	if !*flagNoAnalyze {
		t := &rewrite.Transformations{Noops: splitNonEmpty(*flagNoops)}
		resolved, err := analyze.Run(f, t)
		if err != nil {
			klog.Errorf("analysis failed: %v", err)
			os.Exit(1)
		}
		if !resolved {
			klog.Warningf("type inference did not resolve every operation; see warnings above")
		}
	}

	if !f.IsConsistent() {
		klog.Warningf("flow failed its consistency audit; the dump below may be misleading")
	}

	if *flagExtractOutputs != "" {
		f, err = extractSubgraph(f, *flagExtractInputs, *flagExtractOutputs)
		if err != nil {
			klog.Errorf("extraction failed: %v", err)
			os.Exit(1)
		}
	}

	if *flagSummary {
		printSummary(f)
		return
	}
	fmt.Print(f.String())
}

// extractSubgraph resolves the comma-separated input/output variable names
// against f, extracts the subgraph they cut out into a fresh Flow, and
// returns that Flow so the rest of main can dump or summarize it exactly
// like any other loaded flow.
func extractSubgraph(f *flow.Flow, inputsCSV, outputsCSV string) (*flow.Flow, error) {
	ins, err := resolveVars(f, inputsCSV)
	if err != nil {
		return nil, err
	}
	outs, err := resolveVars(f, outputsCSV)
	if err != nil {
		return nil, err
	}

	dst := flow.New(f.BatchSize)
	extract.Subgraph(dst, extract.UniqueName("extract"), ins, outs)
	return dst, nil
}

func resolveVars(f *flow.Flow, csv string) ([]*flow.Variable, error) {
	var vars []*flow.Variable
	for _, name := range splitNonEmpty(csv) {
		v := f.Var(name)
		if v == nil {
			return nil, fmt.Errorf("no such variable %q", name)
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func splitNonEmpty(csv string) []string {
	var out []string
	for _, s := range strings.Split(csv, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle    = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	evenRowStyle   = lipgloss.NewStyle().Faint(true).PaddingLeft(1).PaddingRight(1)
)

func newPlainTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row == 0 {
				return headerRowStyle
			}
			if row%2 == 0 {
				return evenRowStyle
			}
			return oddRowStyle
		})
}

func printSummary(f *flow.Flow) {
	table := newPlainTable()
	table.Row("metric", "value")
	table.Row("variables", humanize.Comma(int64(len(f.Vars))))
	table.Row("operations", humanize.Comma(int64(len(f.Ops))))
	table.Row("functions", humanize.Comma(int64(len(f.Funcs))))
	table.Row("connectors", humanize.Comma(int64(len(f.Connectors))))

	var constantBytes uint64
	var numConstants int64
	for _, v := range f.Vars {
		if v.IsConstant() {
			numConstants++
			constantBytes += v.Size
		}
	}
	table.Row("constants", humanize.Comma(numConstants))
	table.Row("constant bytes", humanize.Bytes(constantBytes))
	fmt.Println(table.Render())
}
