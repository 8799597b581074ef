package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gastozen-dev/gastozen/internal/importer"
	"github.com/gastozen-dev/gastozen/internal/ledger"
	"github.com/gastozen-dev/gastozen/internal/sheet"
)

// codecFor returns the codec named by format, or the one matching path.
func codecFor(format, path string) (sheet.Codec, error) {
	reg := sheet.DefaultRegistry()
	if format == "" {
		return reg.Detect(path)
	}
	c := reg.Get(format)
	if c == nil {
		return nil, fmt.Errorf("%w: %s (supported: %s)", sheet.ErrUnknownFormat, format, strings.Join(reg.Formats(), ", "))
	}
	return c, nil
}

func newExportCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write all data to a workbook (.xlsx file or csv directory)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFor(format, args[0])
			if err != nil {
				return err
			}
			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				snap := e.Snapshot()
				if err := importer.Save(cmd.Context(), codec, args[0], snap); err != nil {
					return err
				}
				a.log.Info("exported", "path", args[0], "format", codec.Format(), "transactions", len(snap.Transactions))
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions, %d accounts and %d categories to %s\n",
					len(snap.Transactions), len(snap.Accounts), len(snap.Categories), args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "workbook format (xlsx, csv); detected from the path by default")
	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	var format string
	var yes, dryRun bool
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace all data with the contents of a workbook",
		Long: `Import reads the Transacciones, Cuentas and Categorías sheets of a workbook,
resolves references and recomputes account balances from the imported
transactions. All current data is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := codecFor(format, args[0])
			if err != nil {
				return err
			}
			r := importer.NewReconciler(importer.WithLogger(a.log), importer.WithClock(a.now))
			report, err := r.Load(cmd.Context(), codec, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snap := report.Snapshot
			fmt.Fprintf(out, "Read %d transactions, %d accounts and %d categories from %s\n",
				len(snap.Transactions), len(snap.Accounts), len(snap.Categories), args[0])
			for _, d := range report.Dropped {
				fmt.Fprintf(out, "  skipped row %d (%s): %s\n", d.Row, d.Description, d.Reason)
			}
			if dryRun {
				return nil
			}
			if !yes && !confirm(cmd.InOrStdin(), out, "This replaces all current data. Continue?") {
				fmt.Fprintln(out, "Import cancelled.")
				return nil
			}

			return a.withEngine(cmd.Context(), func(e *ledger.Engine) error {
				if err := e.Replace(cmd.Context(), snap); err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported. Total balance: %s\n", a.money(e.TotalBalance()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "workbook format (xlsx, csv); detected from the path by default")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be imported without saving")
	return cmd
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}
