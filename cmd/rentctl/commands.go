package main

import (
	"fmt"
	"os"
	"time"

	"github.com/segyhp/rental-manager/internal/auth"
	"github.com/segyhp/rental-manager/internal/domain"
	"github.com/segyhp/rental-manager/internal/export"
	"github.com/segyhp/rental-manager/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func SettleCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle [contract-id]",
		Short: "Mark one month of a contract as settled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid contract id: %v", err)
			}
			period, err := periodFlag(cmd, "period")
			if err != nil {
				return err
			}
			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			settlement, err := svc.Settlements.SettleMonth(cmd.Context(), contractID, period, amount, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settled %s for %s (id %s)\n",
				settlement.Period().Label(), settlement.Amount.StringFixed(2), settlement.ID)
			return nil
		},
	}

	cmd.Flags().String("period", "", "Month to settle as YYYY-MM")
	cmd.Flags().String("amount", "", "Amount collected")
	cmd.Flags().String("notes", "", "Free text kept with the settlement")
	_ = cmd.MarkFlagRequired("period")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func SettleRangeCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle-range [contract-id]",
		Short: "Settle every month between two periods",
		Long:  "Settles each month from --from to --to inclusive with the same amount. Months that fail are reported and the rest are still settled.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid contract id: %v", err)
			}
			from, err := periodFlag(cmd, "from")
			if err != nil {
				return err
			}
			to, err := periodFlag(cmd, "to")
			if err != nil {
				return err
			}
			amount, err := amountFlag(cmd)
			if err != nil {
				return err
			}
			notes, _ := cmd.Flags().GetString("notes")

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.Settlements.SettleRange(cmd.Context(), contractID, from, to, amount, notes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s  %-6s  %s\n", "Month", "Status", "Reason")
			for _, o := range result.Outcomes {
				fmt.Fprintf(out, "%-16s  %-6s  %s\n", o.Period.Label(), o.Outcome, o.Reason)
			}
			fmt.Fprintf(out, "%d settled, %d failed\n", result.Settled, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d of %d months failed", result.Failed, len(result.Outcomes))
			}
			return nil
		},
	}

	cmd.Flags().String("from", "", "First month as YYYY-MM")
	cmd.Flags().String("to", "", "Last month as YYYY-MM")
	cmd.Flags().String("amount", "", "Amount collected per month")
	cmd.Flags().String("notes", "", "Free text kept with each settlement")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func UnsettleCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unsettle [contract-id]",
		Short: "Remove the settlement of one month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contractID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid contract id: %v", err)
			}
			period, err := periodFlag(cmd, "period")
			if err != nil {
				return err
			}

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.Settlements.UnsettleMonth(cmd.Context(), contractID, period); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer settled\n", period.Label())
			return nil
		},
	}

	cmd.Flags().String("period", "", "Month to unsettle as YYYY-MM")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func ArrearsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arrears [contract-id]",
		Short: "Show pending months for one contract or the whole portfolio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asOfFlag, _ := cmd.Flags().GetString("as-of")
			asOf, err := utils.ParseDate(asOfFlag, time.Time{})
			if err != nil {
				return fmt.Errorf("invalid --as-of, expected YYYY-MM-DD: %v", err)
			}

			var contractID uuid.UUID
			if len(args) == 1 {
				if contractID, err = uuid.Parse(args[0]); err != nil {
					return fmt.Errorf("invalid contract id: %v", err)
				}
			}

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				summary, err := svc.Arrears.ComputeArrears(cmd.Context(), contractID, asOf)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-16s  %12s  %s\n", "Month", "Owed", "Months late")
				for _, m := range summary.Months {
					fmt.Fprintf(out, "%-16s  %12s  %d\n", m.Label, m.AmountOwed.StringFixed(2), m.MonthsLate)
				}
				fmt.Fprintf(out, "%d pending, %s owed\n", summary.MonthsPending, summary.TotalOwed.StringFixed(2))
				return nil
			}

			portfolio, err := svc.Arrears.ComputePortfolioArrears(cmd.Context(), asOf)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-36s  %7s  %12s  %s\n", "Contract", "Pending", "Owed", "First pending")
			for _, s := range portfolio.Contracts {
				if !s.HasDebt() {
					continue
				}
				fmt.Fprintf(out, "%-36s  %7d  %12s  %s\n", s.ContractID, s.MonthsPending, s.TotalOwed.StringFixed(2), s.FirstPendingMonth)
			}
			for _, e := range portfolio.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", e)
			}
			fmt.Fprintf(out, "%d of %d contracts in arrears, %s owed\n",
				portfolio.ContractsInArrears, portfolio.ContractsChecked, portfolio.TotalOwed.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().String("as-of", "", "Reference date as YYYY-MM-DD, defaults to today")

	return cmd
}

func CertificateCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certificate [owner-id]",
		Short: "Export an owner's annual income certificate as a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid owner id: %v", err)
			}
			year, _ := cmd.Flags().GetInt("year")
			basisFlag, _ := cmd.Flags().GetString("basis")
			outPath, _ := cmd.Flags().GetString("out")

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			certificate, err := svc.Certificates.AnnualCertificate(cmd.Context(), ownerID, year, domain.CertificateBasis(basisFlag))
			if err != nil {
				return err
			}
			data, err := export.CertificateWorkbook(certificate)
			if err != nil {
				return fmt.Errorf("build workbook: %v", err)
			}
			if outPath == "" {
				outPath = export.FileName(certificate)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %v", outPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: gross %s, net %s\n",
				outPath, certificate.Totals.Gross.StringFixed(2), certificate.Totals.Net.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().Int("year", time.Now().Year()-1, "Fiscal year")
	cmd.Flags().String("basis", string(domain.BasisSettled), "settled or accrued")
	cmd.Flags().StringP("out", "o", "", "Output file, defaults to certificate-<tax id>-<year>.xlsx")

	return cmd
}

func HashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash to use as AUTH_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func periodFlag(cmd *cobra.Command, name string) (domain.Period, error) {
	value, _ := cmd.Flags().GetString(name)
	period, err := domain.ParsePeriod(value)
	if err != nil {
		return domain.Period{}, fmt.Errorf("invalid --%s, expected YYYY-MM: %v", name, err)
	}
	return period, nil
}

func amountFlag(cmd *cobra.Command) (decimal.Decimal, error) {
	value, _ := cmd.Flags().GetString("amount")
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --amount: %v", err)
	}
	return amount, nil
}
