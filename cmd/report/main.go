// Command report generates periodic tax-filing summaries from a JSON file
// of OCR-extracted invoice records.
// Usage: report [flags] <input.json>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"taxmitra/internal/config"
	"taxmitra/internal/csvexport"
	"taxmitra/internal/domain"
	"taxmitra/internal/report"
	"taxmitra/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outCSV := flag.String("out-csv", "", "optional CSV output path for the period summary")
	outJSON := flag.String("out-json", "", "optional JSON output path for the full report")
	outXLSX := flag.String("out-xlsx", "", "optional Excel output path for the report")
	payThreshold := flag.Float64("pay-threshold", 0, "tax amount above which a payment recommendation is emitted")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: report [flags] <input.json>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts := cfg.Engine.FilingOptions()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "pay-threshold" {
			opts.PayThreshold = decimal.NewFromFloat(*payThreshold)
		}
	})

	in, err := os.Open(flag.Arg(0))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInputRead, err)
	}
	defer func() { _ = in.Close() }()

	batch, err := report.DecodeBatch(in)
	if err != nil {
		return err
	}

	rep := report.NewGenerator(opts).Generate(batch)

	printSummary(rep)

	if *outCSV != "" && len(rep.Summary) > 0 {
		if err := writeCSV(*outCSV, rep); err != nil {
			return err
		}
		log.Printf("wrote summary CSV to %s", *outCSV)
	}
	if *outJSON != "" {
		if err := writeJSON(*outJSON, rep); err != nil {
			return err
		}
		log.Printf("wrote report JSON to %s", *outJSON)
	}
	if *outXLSX != "" {
		if err := xlsxexport.Save(rep, *outXLSX); err != nil {
			return err
		}
		log.Printf("wrote report workbook to %s", *outXLSX)
	}
	return nil
}

func printSummary(rep *domain.FilingReport) {
	fmt.Println("=== Summary ===")
	if len(rep.Summary) == 0 {
		fmt.Println("No invoices to summarize.")
	} else {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "period\tinvoices\ttaxable\tigst\tcgst\tsgst\ttax\tinvoice value")
		for i := range rep.Summary {
			s := &rep.Summary[i]
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Period, s.InvoiceCount,
				s.TotalTaxableValue.StringFixed(2),
				s.TotalIGST.StringFixed(2),
				s.TotalCGST.StringFixed(2),
				s.TotalSGST.StringFixed(2),
				s.TotalTax.StringFixed(2),
				s.TotalInvoiceValue.StringFixed(2),
			)
		}
		_ = tw.Flush()
	}

	fmt.Println("\n=== Assistant ===")
	out, err := json.MarshalIndent(rep.Assistant, "", "  ")
	if err != nil {
		fmt.Println("{}")
		return
	}
	fmt.Println(string(out))
}

func writeCSV(path string, rep *domain.FilingReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	defer func() { _ = f.Close() }()

	w := csvexport.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	if err := w.WriteSummary(rep.Summary); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	return nil
}

func writeJSON(path string, rep *domain.FilingReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	defer func() { _ = f.Close() }()
	return report.WriteJSON(f, rep)
}
