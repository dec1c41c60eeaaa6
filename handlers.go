package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"bitbucket.org/sornidev/weighbridge_backend/models"
	"bitbucket.org/sornidev/weighbridge_backend/utils"
	"bitbucket.org/sornidev/weighbridge_backend/workflow"
	"github.com/gin-gonic/gin"
)

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func listUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := models.ListUsers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func listConfigsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := models.ListNotificationConfigs(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, configs)
	}
}

func updateConfigHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config id"})
			return
		}

		var input models.UpdateConfigInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		cfg, err := models.UpdateNotificationConfig(c.Request.Context(), id, &input)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "config not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

func listLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logs, err := models.ListActivityLogs(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

type dashboardSummaryResponse struct {
	BuySummary  []models.ProductSummary `json:"buySummary"`
	SellSummary []models.ProductSummary `json:"sellSummary"`
}

const dashboardCacheTTL = 5 * time.Minute

func dashboardSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		startDate := c.Query("startDate")
		endDate := c.Query("endDate")
		if startDate == "" || endDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate are required (YYYY-MM-DD)"})
			return
		}

		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate (YYYY-MM-DD)"})
			return
		}
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate (YYYY-MM-DD)"})
			return
		}
		end = end.Add(24*time.Hour - time.Millisecond)

		// Version-keyed cache: the ingest/delete paths bump the version
		// counter, so stale entries simply stop being read.
		ver := config.GetRedisCounterValue(c.Request.Context(), workflow.DashboardCacheVersionKey)
		cacheKey := fmt.Sprintf("dashboard:%d:%s:%s", ver, startDate, endDate)
		var cached dashboardSummaryResponse
		if hit, err := config.GetRedisObject(cacheKey, &cached); err == nil && hit {
			c.JSON(http.StatusOK, cached)
			return
		}

		buy, sell, err := models.DashboardSummary(c.Request.Context(), start, end)
		if err != nil {
			config.LogError(logger, "handlers.go", "dashboardSummaryHandler", "DashboardSummary", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := dashboardSummaryResponse{BuySummary: buy, SellSummary: sell}
		if err := config.SetRedisObject(cacheKey, resp, dashboardCacheTTL); err != nil {
			logger.Warn("failed to cache dashboard summary: " + err.Error())
		}
		c.JSON(http.StatusOK, resp)
	}
}
