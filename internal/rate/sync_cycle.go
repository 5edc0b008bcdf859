package rate

import (
	"context"
	"errors"
	"fmt"
	"fxsync/internal/domain"
	"time"

	"github.com/sirupsen/logrus"
)

const perCurrencyTimeout = 15 * time.Second

// CurrencyFailure is one basket member that could not be refreshed.
type CurrencyFailure struct {
	Currency string
	Kind     string
	Err      error
}

type CycleReport struct {
	ExecutionID string
	StartedAt   time.Time
	FinishedAt  time.Time
	Stored      []string
	Failed      []CurrencyFailure
	Skipped     []string // not attempted after the provider rejected the account
}

// Result is "ok", "partial" or "failed".
func (r CycleReport) Result() string {
	switch {
	case len(r.Failed) == 0 && len(r.Skipped) == 0:
		return "ok"
	case len(r.Stored) == 0:
		return "failed"
	default:
		return "partial"
	}
}

// syncBasket refreshes every basket member against the base currency, one at a time.
// A failing member is logged and reported; only a rejected account stops the loop.
func syncBasket(ctx context.Context, execID string, svc *Service) (CycleReport, error) {
	report := CycleReport{ExecutionID: execID, StartedAt: svc.now()}
	log := logrus.WithField("exec_id", execID)

	// STEP 1: base currency and targets
	known, err := svc.store.ListCurrencies(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list currencies: %w", err)
	}
	base, ok := findCurrency(known, svc.basket.Base())
	if !ok {
		return report, &domain.NotFoundError{Entity: fmt.Sprintf("base currency %q", svc.basket.Base())}
	}
	targets := svc.basket.Targets(known)
	if len(targets) == 0 {
		log.Infof("Nothing to sync for base %s", base.Name)
		report.FinishedAt = svc.now()
		return report, nil
	}
	log.Infof("Syncing %d currencies against %s", len(targets), base.Name)

	// STEP 2: fetch and upsert sequentially
	for i, target := range targets {
		if ctxErr := ctx.Err(); ctxErr != nil {
			report.Skipped = append(report.Skipped, names(targets[i:])...)
			report.FinishedAt = svc.now()
			return report, fmt.Errorf("sync interrupted before %s: %w", target.Name, ctxErr)
		}

		reqCtx, cancel := context.WithTimeout(ctx, perCurrencyTimeout)
		_, err = svc.fetchAndStore(reqCtx, base, target)
		cancel()
		if err == nil {
			report.Stored = append(report.Stored, target.Name)
			continue
		}

		kind := failureKind(err)
		log.WithError(err).WithFields(logrus.Fields{"currency": target.Name, "kind": kind}).Warn("currency wasn't synced")
		svc.metrics.RecordFetchFailure(target.Name, kind)
		report.Failed = append(report.Failed, CurrencyFailure{Currency: target.Name, Kind: kind, Err: err})

		if errors.Is(err, domain.ErrProviderRejected) {
			rest := names(targets[i+1:])
			if len(rest) > 0 {
				log.WithField("skipped", rest).Error("provider rejected the request, remaining currencies skipped until next cycle")
			}
			report.Skipped = append(report.Skipped, rest...)
			break
		}
	}

	report.FinishedAt = svc.now()
	log.Infof("Sync finished: %d stored, %d failed, %d skipped", len(report.Stored), len(report.Failed), len(report.Skipped))
	return report, nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrFetchUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrProviderRejected):
		return "rejected"
	case errors.Is(err, domain.ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, domain.ErrPersistenceFailure):
		return "persistence"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "other"
	}
}

func findCurrency(known []domain.Currency, name string) (domain.Currency, bool) {
	for _, c := range known {
		if c.Name == name {
			return c, true
		}
	}
	return domain.Currency{}, false
}

func names(currencies []domain.Currency) []string {
	out := make([]string, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, c.Name)
	}
	return out
}
