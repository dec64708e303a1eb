package main

import (
	"bytes"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/iqfinance/intel-dashboard/internal/analyze"
	"github.com/iqfinance/intel-dashboard/internal/export"
	"github.com/iqfinance/intel-dashboard/internal/render"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <result.json>",
	Short: "Export a saved analysis result as PDF, HTML, spreadsheet or markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}
		page, err := export.Page(analyze.Envelope(cfg.Analysis.Envelope), body, time.Now())
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = defaultExportName(exportFormat)
		}

		var data []byte
		switch exportFormat {
		case formatPDF:
			html, err := render.NewHTML()
			if err != nil {
				return err
			}
			data, err = export.PDF(cmd.Context(), export.NewChromePDF(cfg.Export), html, *page)
			if err != nil {
				return err
			}
		case formatXLSX:
			if page.Dashboard == nil {
				return eris.New("spreadsheet export requires a structured report")
			}
			var buf bytes.Buffer
			if err := export.XLSX(page.Dashboard, &buf); err != nil {
				return err
			}
			data = buf.Bytes()
		case formatHTML:
			html, err := render.NewHTML()
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := html.Export(&buf, *page); err != nil {
				return err
			}
			data = buf.Bytes()
		case formatMarkdown:
			data = []byte(pageMarkdown(page))
		default:
			return eris.Errorf("unknown format %q", exportFormat)
		}
		return writeOutput(cmd.OutOrStdout(), out, data)
	},
}

func defaultExportName(format string) string {
	switch format {
	case formatPDF:
		return render.PDFFilename
	case formatXLSX:
		return render.XLSXFilename
	case formatHTML:
		return "iq-finance-dashboard.html"
	default:
		return "-"
	}
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatPDF, "export format: pdf, xlsx, html, markdown")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default derived from format)")
	rootCmd.AddCommand(exportCmd)
}
