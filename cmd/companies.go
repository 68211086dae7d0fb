package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadrank-cli/internal/ingest"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Maintain the company store",
}

var companiesImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the company store from a staging sheet export",
	Long: `Parses the wide company staging sheet (CSV/TSV/XLSX) and replaces
the company store with it in one transaction. Derived scores are cleared
until the next 'score companies' run.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompaniesImport,
}

func init() {
	companiesImportCmd.Flags().String("encoding", "", "input charset for CSV/TSV (IANA name, default UTF-8)")
	companiesImportCmd.Flags().String("sheet", "", "XLSX sheet name (default: first sheet)")

	companiesCmd.AddCommand(companiesImportCmd)
	rootCmd.AddCommand(companiesCmd)
}

func runCompaniesImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	encoding, _ := cmd.Flags().GetString("encoding")
	sheet, _ := cmd.Flags().GetString("sheet")

	companies, err := ingest.ReadCompanies(args[0], ingest.Options{Encoding: encoding, Sheet: sheet})
	if err != nil {
		return err
	}

	now := timeNow().UTC()
	for i := range companies {
		if companies[i].CreatedAt.IsZero() {
			companies[i].CreatedAt = now
		}
		companies[i].UpdatedAt = now
	}

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.ReplaceCompanies(ctx, companies); err != nil {
		return err
	}

	fmt.Printf("Imported %d companies.\n", len(companies))
	return nil
}
