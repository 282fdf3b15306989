package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/casaflow/casaflow-backend/internal/invoices"
	"github.com/casaflow/casaflow-backend/internal/reporting"
	"github.com/casaflow/casaflow-backend/pkg/logger"
	"github.com/casaflow/casaflow-backend/pkg/metrics"
)

type invoiceGenerator interface {
	Generate(ctx context.Context, year, month int, includePending bool) (invoices.GenerateResult, error)
}

type dashboardReader interface {
	Dashboard(ctx context.Context, year, month int) (reporting.Dashboard, error)
}

// InvoiceGenerationJobParams configure the monthly billing job.
type InvoiceGenerationJobParams struct {
	Logger    *logger.Logger
	Invoices  invoiceGenerator
	Reporting dashboardReader
	Metrics   *metrics.BillingMetrics
	// IncludePending widens generation to pending houses, mirroring the
	// manual trigger's flag.
	IncludePending bool
	Now            func() time.Time
}

// InvoiceGenerationJob generates invoices for the current period and
// refreshes the delinquency gauges. Generation is idempotent, so running the
// job daily only creates rows the first run of each month.
type InvoiceGenerationJob struct {
	logg           *logger.Logger
	invoices       invoiceGenerator
	reporting      dashboardReader
	metrics        *metrics.BillingMetrics
	includePending bool
	now            func() time.Time
}

// NewInvoiceGenerationJob builds the job.
func NewInvoiceGenerationJob(params InvoiceGenerationJobParams) (*InvoiceGenerationJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Invoices == nil {
		return nil, fmt.Errorf("invoice service required")
	}
	if params.Reporting == nil {
		return nil, fmt.Errorf("reporting service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &InvoiceGenerationJob{
		logg:           params.Logger,
		invoices:       params.Invoices,
		reporting:      params.Reporting,
		metrics:        params.Metrics,
		includePending: params.IncludePending,
		now:            now,
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *InvoiceGenerationJob) Name() string { return "invoice_generation" }

// Run executes one cycle. Generation and the gauge refresh are independent
// steps; a failure in one does not skip the other.
func (j *InvoiceGenerationJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	year, month := now.Year(), int(now.Month())
	period := fmt.Sprintf("%04d-%02d", year, month)
	ctx = j.logg.WithField(ctx, "period", period)

	var errs error

	result, err := j.invoices.Generate(ctx, year, month, j.includePending)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("generate invoices: %w", err))
	} else {
		ctx = j.logg.WithField(ctx, "created", result.Created)
		j.logg.Info(ctx, "invoice generation cycle done")
		if j.metrics != nil {
			j.metrics.AddInvoicesGenerated(period, int(result.Created))
		}
	}

	dashboard, err := j.reporting.Dashboard(ctx, year, month)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("refresh billing gauges: %w", err))
	} else if j.metrics != nil {
		j.metrics.SetHousesLate(dashboard.HousesLateCount)
		j.metrics.SetOpenCents(dashboard.OpenCents)
	}

	return errs
}
