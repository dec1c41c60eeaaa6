package main

import (
	"errors"
	"net/http"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"bitbucket.org/sornidev/weighbridge_backend/models"
	"bitbucket.org/sornidev/weighbridge_backend/utils"
	"bitbucket.org/sornidev/weighbridge_backend/workflow"
	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const maxUploadSizeBytes int64 = 50 * 1024 * 1024

// uploadHandler ingests a pre-parsed spreadsheet payload
// ({fileData:{allData[],mixData[]}, fileName}).
func uploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var payload workflow.UploadPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payload must contain fileData.allData and fileData.mixData arrays"})
			return
		}
		if payload.FileData.AllData == nil || payload.FileData.MixData == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payload must contain fileData.allData and fileData.mixData arrays"})
			return
		}

		result, err := workflow.IngestUpload(c.Request.Context(), logger, &payload)
		if err != nil {
			config.LogError(logger, "uploads.go", "uploadHandler", "IngestUpload", payload.FileName, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// uploadFileHandler ingests a raw .xlsx file: first sheet is the
// transaction data, an optional second sheet is the company roster.
func uploadFileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
			return
		}
		defer file.Close()
		if header.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 50MB limit"})
			return
		}

		wb, err := excelize.OpenReader(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "not a readable xlsx file: " + err.Error()})
			return
		}
		defer wb.Close()

		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "workbook has no sheets"})
			return
		}

		payload := workflow.UploadPayload{FileName: header.Filename}
		payload.FileData.AllData, err = sheetToMaps(wb, sheets[0])
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read sheet: " + err.Error()})
			return
		}
		payload.FileData.MixData = []map[string]any{}
		if len(sheets) > 1 {
			payload.FileData.MixData, err = sheetToMaps(wb, sheets[1])
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read roster sheet: " + err.Error()})
				return
			}
		}

		result, err := workflow.IngestUpload(c.Request.Context(), logger, &payload)
		if err != nil {
			config.LogError(logger, "uploads.go", "uploadFileHandler", "IngestUpload", header.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// sheetToMaps converts one worksheet to header-keyed row maps, the
// same shape the JSON upload path carries.
func sheetToMaps(wb *excelize.File, sheet string) ([]map[string]any, error) {
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []map[string]any{}, nil
	}
	headers := rows[0]
	out := make([]map[string]any, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		m := make(map[string]any, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(cells) {
				continue
			}
			m[h] = cells[i]
		}
		if len(m) > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

func listBatchesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		batches, err := models.ListUploadBatches(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, batches)
	}
}

func deleteBatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		err := models.DeleteUploadBatch(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// Deleted rows change dashboard sums; invalidate cached summaries.
		if _, err := config.GetRedisCounter(c.Request.Context(), workflow.DashboardCacheVersionKey); err != nil {
			config.GetLogger().Warn("failed to bump dashboard cache version: " + err.Error())
		}
		c.Status(http.StatusNoContent)
	}
}

func sendBatchReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		id := c.Param("id")

		// Best-effort lock so two operators can't double-send the same
		// batch. Redis being down degrades to no locking, not failure.
		if redisLock := config.GetRedisLock(); redisLock != nil {
			lock, err := redisLock.Obtain(c.Request.Context(), "send-batch:"+id, 2*time.Minute, nil)
			if err == redislock.ErrNotObtained {
				c.JSON(http.StatusConflict, gin.H{"error": "dispatch already in progress for this batch"})
				return
			}
			if err == nil {
				defer func() {
					if releaseErr := lock.Release(c.Request.Context()); releaseErr != nil {
						logger.Warn("failed to release dispatch lock: " + releaseErr.Error())
					}
				}()
			}
		}

		summary, err := workflow.DispatchBatchReports(c.Request.Context(), logger, workflow.LinePusher{}, id)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
				return
			}
			if errors.Is(err, utils.ErrorNoData) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "batch has no data rows"})
				return
			}
			config.LogError(logger, "uploads.go", "sendBatchReportHandler", "DispatchBatchReports", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":           summary.String(),
			"companiesNotified": summary.CompaniesNotified,
			"usersNotified":     summary.UsersNotified,
			"failures":          summary.Failures,
		})
	}
}
