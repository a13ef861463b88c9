package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/segyhp/rental-manager/internal/app"
	"github.com/segyhp/rental-manager/internal/config"
	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type settlementService interface {
	SettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period, amount decimal.Decimal, notes string) (*domain.Settlement, error)
	SettleRange(ctx context.Context, contractID uuid.UUID, from, to domain.Period, amount decimal.Decimal, notes string) (*domain.RangeResult, error)
	UnsettleMonth(ctx context.Context, contractID uuid.UUID, period domain.Period) error
}

type arrearsService interface {
	ComputeArrears(ctx context.Context, contractID uuid.UUID, asOf time.Time) (*domain.ArrearsSummary, error)
	ComputePortfolioArrears(ctx context.Context, asOf time.Time) (*domain.PortfolioArrears, error)
}

type certificateService interface {
	AnnualCertificate(ctx context.Context, ownerID uuid.UUID, year int, basis domain.CertificateBasis) (*domain.AnnualCertificate, error)
}

type services struct {
	Settlements  settlementService
	Arrears      arrearsService
	Certificates certificateService
}

// opener connects to the backing stores and returns the services with a
// function that releases them.
type opener func(ctx context.Context) (*services, func(), error)

func openApp(ctx context.Context) (*services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return &services{
		Settlements:  a.Settlements,
		Arrears:      a.Arrears,
		Certificates: a.Certificates,
	}, a.Close, nil
}

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rentctl",
		Short:         "Rental settlement and arrears tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		SettleCmd(open),
		SettleRangeCmd(open),
		UnsettleCmd(open),
		ArrearsCmd(open),
		CertificateCmd(open),
		HashPasswordCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd(openApp).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
