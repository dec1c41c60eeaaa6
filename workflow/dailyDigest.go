package workflow

import (
	"context"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/models"
	"github.com/sirupsen/logrus"
)

// RunDailyDigest pushes today's per-company summary to every company
// that has recipients and data. Intended to run from the cron
// scheduler; companies without activity today are silently skipped.
func RunDailyDigest(ctx context.Context, logger *logrus.Logger, pusher MessagePusher) (*DispatchSummary, error) {
	configs, err := models.ListNotificationConfigs(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	header := DailyReportHeader(now)

	var reports []*CompanyReport
	for _, cfg := range configs {
		if len(cfg.Uuids) == 0 {
			continue
		}
		items, err := models.CompanyDayTotals(ctx, cfg.CompanyId, now)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"field":      "RunDailyDigest",
				"company_id": cfg.CompanyId,
			}).Error("day totals query failed: " + err.Error())
			continue
		}
		notifyBuy := cfg.NotifyBuy == nil || *cfg.NotifyBuy
		notifySell := cfg.NotifySell == nil || *cfg.NotifySell
		text := FormatCompanyReport(header, cfg.CompanyId, items, notifyBuy, notifySell)
		if ReportIsEmpty(text) {
			continue
		}
		reports = append(reports, &CompanyReport{
			CompanyId:  cfg.CompanyId,
			Text:       text,
			WeighTypes: directionsLabel(items, notifyBuy, notifySell),
			Recipients: cfg.Uuids,
		})
	}

	summary := DispatchReports(ctx, logger, pusher, reports)
	logger.WithFields(logrus.Fields{
		"field":              "RunDailyDigest",
		"companies_notified": summary.CompaniesNotified,
		"users_notified":     summary.UsersNotified,
		"failures":           summary.Failures,
	}).Info("daily digest completed")
	return summary, nil
}
