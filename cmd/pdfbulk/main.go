// Command pdfbulk stamps every page of a PDF with its identifier and the
// quantity found for it in a CSV file.
//
//	pdfbulk -pdf plans.pdf -csv quantities.csv -project PRJ -prefix "ULC " -o out.pdf
//
// With -app-root, the merge is recorded in the journal database configured
// for the server.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/daddykotex/pdf-edit-bulk/conf"
	"github.com/daddykotex/pdf-edit-bulk/journal"
	"github.com/daddykotex/pdf-edit-bulk/pdfs"
	"github.com/daddykotex/pdf-edit-bulk/stamp"
	"github.com/daddykotex/pdf-edit-bulk/tabular"
)

var errUsage = errors.New("usage")

type options struct {
	pdfPath   string
	csvPath   string
	project   string
	prefix    string
	delimiter string
	idField   string
	qtyField  string
	out       string
	appRoot   string
	quiet     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fset := flag.NewFlagSet("pdfbulk", flag.ContinueOnError)
	fset.SetOutput(stderr)
	o := &options{}
	fset.StringVar(&o.pdfPath, "pdf", "", "input PDF `file` (required)")
	fset.StringVar(&o.csvPath, "csv", "", "input CSV `file` (required)")
	fset.StringVar(&o.project, "project", "", "project number, pages are identified as <project>-001... (required)")
	fset.StringVar(&o.prefix, "prefix", "", "text written before each identifier")
	fset.StringVar(&o.delimiter, "delimiter", "", `CSV delimiter: ";", ",", "|" or "tab" (default ";")`)
	fset.StringVar(&o.idField, "id-field", "", `identifier column (default "identifier")`)
	fset.StringVar(&o.qtyField, "qty-field", "", `quantity column (default "quantity")`)
	fset.StringVar(&o.out, "o", "", "output `file`, - for stdout (default <project>.pdf)")
	fset.StringVar(&o.appRoot, "app-root", "", "server app root, to record the merge in its journal")
	fset.BoolVar(&o.quiet, "q", false, "do not print the per-page summary")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if o.pdfPath == "" || o.csvPath == "" || o.project == "" {
		fset.Usage()
		return nil, errUsage
	}
	if o.out == "" {
		o.out = o.project + ".pdf"
	}
	return o, nil
}

func main() {
	log.SetFlags(0)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if err := run(ctx, o, os.Stdout, os.Stderr); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, stdout io.Writer, stderr io.Writer) error {
	if o.out == "-" && isTerminal(stdout) {
		return errors.New("refusing to write a PDF to a terminal, use -o")
	}

	var core *conf.Core
	if o.appRoot != "" {
		core = &conf.Core{AppRoot: o.appRoot, RootCtx: ctx}
		if err := core.LoadCoreConf(); err != nil {
			return err
		}
		defer core.ResourceCleanUp()
		if err := core.PrepareSQLDatabases(); err != nil {
			return err
		}
		if err := core.PrepareJournal(); err != nil {
			return err
		}
	}

	pdfBytes, err := os.ReadFile(o.pdfPath)
	if err != nil {
		return err
	}
	csvBytes, err := os.ReadFile(o.csvPath)
	if err != nil {
		return err
	}

	names, delim := stamp.DefaultFieldNames, o.delimiter
	if core != nil {
		names = core.CSV.FieldNames()
		if delim == "" {
			delim = core.CSV.Delimiter
		}
	}
	if o.idField != "" {
		names.Identifier = o.idField
	}
	if o.qtyField != "" {
		names.Quantity = o.qtyField
	}
	comma, err := tabular.ParseDelimiter(delim)
	if err != nil {
		return err
	}
	rows, err := tabular.ReadAll(bytes.NewReader(csvBytes), tabular.Options{Delimiter: comma})
	if err != nil {
		return fmt.Errorf("%s: %w", o.csvPath, err)
	}
	doc, err := pdfs.OpenBytes(pdfBytes)
	if err != nil {
		return fmt.Errorf("%s: %w", o.pdfPath, err)
	}

	opts := stamp.MergeOptions{Project: o.project, Prefix: o.prefix}
	sum, err := stamp.MergeAnnotations(ctx, doc, rows, names, opts)
	if err != nil {
		return err
	}

	if o.out == "-" {
		if _, err := doc.WriteTo(stdout); err != nil {
			return err
		}
	} else if err := doc.WriteToFile(o.out); err != nil {
		return err
	}

	digest := journal.Digest(pdfBytes, csvBytes)
	if !o.quiet {
		printSummary(stderr, sum, digest)
	}
	if core != nil {
		e := journal.NewEntry(journal.SourceCLI, "", digest, opts, sum)
		if err := core.Journal.Record(ctx, e); err != nil {
			log.Printf("[WARN] journal record: %v", err)
		}
	}
	return nil
}

func printSummary(w io.Writer, sum *stamp.Summary, digest string) {
	for _, l := range sum.Labels {
		mark := " "
		if !l.Found {
			mark = "?"
		}
		fmt.Fprintf(w, "%s %4d  %s\n", mark, l.Page, l.Label)
	}
	fmt.Fprintf(w, "pages=%d matched=%d missing=%d digest=%s\n", sum.Pages, sum.Matched, sum.Missing, digest)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
