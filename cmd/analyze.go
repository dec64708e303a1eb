package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/internal/intel"
	"github.com/iqfinance/intel-dashboard/internal/progress"
	"github.com/iqfinance/intel-dashboard/internal/render"
)

const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatHTML     = "html"
	formatPDF      = "pdf"
	formatXLSX     = "xlsx"
)

var (
	analyzeFormat string
	analyzeOut    string
	analyzeQuiet  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <domain>",
	Short: "Analyze a company and print the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cfg)
		if err != nil {
			return err
		}

		var onStep func(int, progress.Step)
		if !analyzeQuiet {
			stderr := cmd.ErrOrStderr()
			onStep = func(_ int, s progress.Step) { fmt.Fprintf(stderr, "%s %s\n", s.Icon, s.Text) }
		}

		var res *analyze.Result
		err = progress.Track(cmd.Context(), progress.DefaultInterval, progress.DefaultSteps, onStep,
			func(ctx context.Context) error {
				var err error
				res, err = svc.Analyze(ctx, analyze.Request{Domain: args[0]})
				return err
			})
		if err != nil {
			msg, details := analyze.Describe(err)
			if details != "" {
				return eris.Wrapf(err, "%s: %s", msg, details)
			}
			return eris.Wrap(err, msg)
		}

		out, err := formatResult(res, analyzeFormat, time.Now())
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), analyzeOut, out)
	},
}

// formatResult renders an analysis result in one of the terminal or file
// formats.
func formatResult(res *analyze.Result, format string, now time.Time) ([]byte, error) {
	body, err := res.Body()
	if err != nil {
		return nil, err
	}

	switch format {
	case formatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return nil, eris.Wrap(err, "format json")
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case formatYAML:
		var doc any
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, eris.Wrap(err, "format yaml")
		}
		out, err := yaml.Marshal(doc)
		return out, eris.Wrap(err, "format yaml")
	}

	page, err := reportPage(res, now)
	if err != nil {
		return nil, err
	}

	switch format {
	case formatHTML:
		html, err := render.NewHTML()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := html.Export(&buf, *page); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatMarkdown:
		return []byte(pageMarkdown(page)), nil
	case formatText:
		return terminal(pageMarkdown(page))
	default:
		return nil, eris.Errorf("unknown format %q", format)
	}
}

func reportPage(res *analyze.Result, now time.Time) (*render.ReportPage, error) {
	if res.Envelope != analyze.EnvelopeStructured {
		return &render.ReportPage{Text: render.BuildTextReport(res.Text)}, nil
	}
	in, err := intel.Decode(res.Structured)
	if err != nil {
		return nil, err
	}
	d := render.BuildDashboard(in, render.Meta{Domain: res.Domain, Model: res.Model, AnalyzedAt: now})
	return &render.ReportPage{Dashboard: d}, nil
}

func pageMarkdown(p *render.ReportPage) string {
	if p.Dashboard != nil {
		return render.DashboardMarkdown(p.Dashboard)
	}
	return render.TextMarkdown(p.Text)
}

// terminal styles markdown for a plain terminal.
func terminal(md string) ([]byte, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, eris.Wrap(err, "create terminal renderer")
	}
	out, err := r.Render(md)
	if err != nil {
		return nil, eris.Wrap(err, "render terminal output")
	}
	return []byte(out), nil
}

// writeOutput writes to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", formatText, "output format: text, markdown, json, yaml, html")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "output file (default stdout)")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "hide progress messages")
	rootCmd.AddCommand(analyzeCmd)
}
