package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/umsatz-dev/umsatz/internal/banking"
	"github.com/umsatz-dev/umsatz/internal/config"
	"github.com/umsatz-dev/umsatz/internal/importer"
	"github.com/umsatz-dev/umsatz/internal/model"
)

func newConvertCommand() *cobra.Command {
	var cfgPath string
	var bicFlag string
	var format string

	cmd := &cobra.Command{
		Use:   "convert <file.csv>",
		Short: "Convert a bank CSV export to a normalized statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bic, err := resolveBIC(bicFlag, cfgPath)
			if err != nil {
				return err
			}

			parser := importer.DefaultRegistry(bic).Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q", format)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening export: %w", err)
			}
			defer f.Close()

			statement, err := parser.Parse(f)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			printStatement(cmd.OutOrStdout(), statement)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "umsatz.yaml", "config file")
	cmd.Flags().StringVar(&bicFlag, "bic", "", "bank BIC (overrides the config file)")
	cmd.Flags().StringVar(&format, "format", "sparda", "input format")

	return cmd
}

// resolveBIC picks the bank identifier from the flag or the config file.
// Missing configuration fails here, before the export is even opened.
func resolveBIC(bicFlag, cfgPath string) (banking.BIC, error) {
	if bicFlag != "" {
		return banking.ParseBIC(bicFlag)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", config.ErrNoBIC
		}
		return "", err
	}
	return cfg.BIC()
}

const dateFormat = "2006-01-02"

func printStatement(w io.Writer, st *model.Statement) {
	fmt.Fprintf(w, "account: %s (%s, %s)\n", st.AccountID, st.BankID, st.AccountType)
	fmt.Fprintf(w, "period: %s to %s, end balance %s %s\n",
		st.StartDate.Format(dateFormat), st.EndDate.Format(dateFormat),
		st.EndBalance.StringFixed(2), st.Currency)
	for _, txn := range st.Transactions {
		fmt.Fprintf(w, "%s | %-11s | %10s %s | %s | %s\n",
			txn.Date.Format(dateFormat), txn.Type,
			txn.Amount.StringFixed(2), txn.Currency, txn.Payee, txn.Memo)
	}
}
