package workflow

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/sornidev/weighbridge_backend/models"
	"bitbucket.org/sornidev/weighbridge_backend/utils"
	"github.com/sirupsen/logrus"
)

// MessagePusher delivers one text message to one recipient. The LINE
// client implements it in production; tests use fakes.
type MessagePusher interface {
	Push(ctx context.Context, to string, text string) error
}

// CompanyReport is one rendered report plus its resolved recipients.
type CompanyReport struct {
	CompanyId  string
	Text       string
	WeighTypes string
	Recipients []string
}

type DispatchSummary struct {
	CompaniesNotified int `json:"companiesNotified"`
	UsersNotified     int `json:"usersNotified"`
	Failures          int `json:"failures"`
}

func (s *DispatchSummary) String() string {
	return fmt.Sprintf("companies notified: %d, users notified: %d, failures: %d",
		s.CompaniesNotified, s.UsersNotified, s.Failures)
}

// BuildBatchReports aggregates one batch per company and renders the
// report texts. Companies without a config or without recipients are
// skipped (logged + audited, not an error). A batch with zero rows
// returns ErrorNoData.
func BuildBatchReports(ctx context.Context, logger *logrus.Logger, batch *models.UploadBatch) ([]*CompanyReport, error) {
	rows, err := models.BatchGroupTotals(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, utils.ErrorNoData
	}

	// Group by company, preserving first-seen order.
	var order []string
	byCompany := map[string][]models.CompanyProductTotal{}
	for _, r := range rows {
		companyId := r.CompanyId
		if companyId == "" {
			companyId = unknownValue
		}
		if _, ok := byCompany[companyId]; !ok {
			order = append(order, companyId)
		}
		byCompany[companyId] = append(byCompany[companyId], r)
	}

	header := BatchReportHeader(batch.FileName)
	var reports []*CompanyReport
	for _, companyId := range order {
		cfg, err := models.GetNotificationConfigByCompany(ctx, companyId)
		if err != nil {
			if !errors.Is(err, utils.ErrorRecordNotFound) {
				return nil, err
			}
			logger.WithFields(logrus.Fields{
				"field":      "BuildBatchReports",
				"company_id": companyId,
			}).Warn("no notification config for company; skipping")
			models.WriteActivityLog(ctx, &models.ActivityLog{
				CompanyId: companyId,
				Status:    models.ActivityStatusSkipped,
				Message:   "no notification config for company",
			})
			continue
		}
		if len(cfg.Uuids) == 0 {
			logger.WithFields(logrus.Fields{
				"field":      "BuildBatchReports",
				"company_id": companyId,
			}).Warn("config has no recipients; skipping")
			models.WriteActivityLog(ctx, &models.ActivityLog{
				CompanyId: companyId,
				Status:    models.ActivityStatusSkipped,
				Message:   "config has no recipients",
			})
			continue
		}

		notifyBuy := cfg.NotifyBuy == nil || *cfg.NotifyBuy
		notifySell := cfg.NotifySell == nil || *cfg.NotifySell
		text := FormatCompanyReport(header, companyId, byCompany[companyId], notifyBuy, notifySell)
		if ReportIsEmpty(text) {
			models.WriteActivityLog(ctx, &models.ActivityLog{
				CompanyId: companyId,
				Status:    models.ActivityStatusSkipped,
				Message:   "rendered report is empty",
			})
			continue
		}

		reports = append(reports, &CompanyReport{
			CompanyId:  companyId,
			Text:       text,
			WeighTypes: directionsLabel(byCompany[companyId], notifyBuy, notifySell),
			Recipients: cfg.Uuids,
		})
	}
	return reports, nil
}

// DispatchReports pushes each report to each of its recipients,
// individually. Failures are counted per recipient and never abort the
// remaining recipients or companies.
func DispatchReports(ctx context.Context, logger *logrus.Logger, pusher MessagePusher, reports []*CompanyReport) *DispatchSummary {
	summary := &DispatchSummary{}
	for _, report := range reports {
		var sent, failed int
		for _, uid := range report.Recipients {
			if err := pusher.Push(ctx, uid, report.Text); err != nil {
				failed++
				logger.WithFields(logrus.Fields{
					"field":      "DispatchReports",
					"company_id": report.CompanyId,
					"user_id":    uid,
				}).Error("push failed: " + err.Error())
				continue
			}
			sent++
		}
		summary.UsersNotified += sent
		summary.Failures += failed
		if sent > 0 {
			summary.CompaniesNotified++
		}

		status := models.ActivityStatusSuccess
		errText := ""
		if sent == 0 {
			status = models.ActivityStatusError
			errText = fmt.Sprintf("all %d pushes failed", failed)
		} else if failed > 0 {
			errText = fmt.Sprintf("%d of %d pushes failed", failed, failed+sent)
		}
		models.WriteActivityLog(ctx, &models.ActivityLog{
			CompanyId:      report.CompanyId,
			WeighType:      report.WeighTypes,
			Status:         status,
			Message:        fmt.Sprintf("batch report dispatched to %d recipients", sent),
			RecipientCount: sent,
			Error:          errText,
		})
	}
	return summary
}

// DispatchBatchReports is the full pipeline for POST /api/uploads/:id/send.
func DispatchBatchReports(ctx context.Context, logger *logrus.Logger, pusher MessagePusher, batchId string) (*DispatchSummary, error) {
	batch, err := models.GetUploadBatch(ctx, batchId)
	if err != nil {
		return nil, err
	}
	reports, err := BuildBatchReports(ctx, logger, batch)
	if err != nil {
		return nil, err
	}
	return DispatchReports(ctx, logger, pusher, reports), nil
}
