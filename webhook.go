package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"bitbucket.org/sornidev/weighbridge_backend/models"
	"bitbucket.org/sornidev/weighbridge_backend/utils"
	"bitbucket.org/sornidev/weighbridge_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"
)

// summaryKeywords trigger an on-demand daily summary reply.
var summaryKeywords = map[string]bool{
	"sorni": true,
	"ซ้อนิ":   true,
}

// webhookHandler receives LINE platform events. Event handling is
// best effort per event: one bad event never fails the whole delivery
// (LINE retries the entire batch otherwise).
func webhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		bot := config.GetLineBot()
		if bot == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "messaging client not configured"})
			return
		}

		events, err := bot.ParseRequest(c.Request)
		if err != nil {
			if errors.Is(err, linebot.ErrInvalidSignature) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		for _, event := range events {
			switch event.Type {
			case linebot.EventTypeFollow:
				handleFollowEvent(ctx, logger, bot, event)
			case linebot.EventTypeMessage:
				if msg, ok := event.Message.(*linebot.TextMessage); ok {
					handleTextMessage(ctx, logger, bot, event, msg)
				}
			}
		}
		c.Status(http.StatusOK)
	}
}

func handleFollowEvent(ctx context.Context, logger *logrus.Logger, bot *linebot.Client, event *linebot.Event) {
	userId := event.Source.UserID

	profile, err := bot.GetProfile(userId).WithContext(ctx).Do()
	if err != nil {
		config.LogError(logger, "webhook.go", "handleFollowEvent", "GetProfile", userId, err)
		config.NotifyAdmin("Failed to onboard user. Error: " + err.Error())
		return
	}

	if _, err := models.SaveUser(ctx, userId, profile.DisplayName); err != nil {
		config.LogError(logger, "webhook.go", "handleFollowEvent", "SaveUser", userId, err)
		config.NotifyAdmin("Failed to onboard user. Error: " + err.Error())
		return
	}
	logger.WithFields(logrus.Fields{
		"field":        "handleFollowEvent",
		"user_id":      userId,
		"display_name": profile.DisplayName,
	}).Info("new follower added")

	welcome := "สวัสดีคุณ " + profile.DisplayName + "! ขอบคุณที่เพิ่มเราเป็นเพื่อน ผู้ดูแลระบบจะทำการตั้งค่าการแจ้งเตือนสำหรับบริษัทของคุณในไม่ช้า"
	if _, err := bot.ReplyMessage(event.ReplyToken, linebot.NewTextMessage(welcome)).WithContext(ctx).Do(); err != nil {
		config.LogError(logger, "webhook.go", "handleFollowEvent", "ReplyMessage", userId, err)
	}
}

func handleTextMessage(ctx context.Context, logger *logrus.Logger, bot *linebot.Client, event *linebot.Event, msg *linebot.TextMessage) {
	if !summaryKeywords[strings.ToLower(strings.TrimSpace(msg.Text))] {
		return
	}
	userId := event.Source.UserID

	reply := func(text string) {
		if _, err := bot.ReplyMessage(event.ReplyToken, linebot.NewTextMessage(text)).WithContext(ctx).Do(); err != nil {
			config.LogError(logger, "webhook.go", "handleTextMessage", "ReplyMessage", userId, err)
		}
	}

	// The uid-to-company linkage is operator managed; the webhook only
	// reads it.
	cfg, err := models.GetNotificationConfigByRecipient(ctx, userId)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			reply("ไม่พบบริษัทที่ผูกกับบัญชี LINE ของคุณ กรุณาติดต่อผู้ดูแลระบบ")
			return
		}
		config.LogError(logger, "webhook.go", "handleTextMessage", "GetNotificationConfigByRecipient", userId, err)
		reply("เกิดข้อผิดพลาดในการดึงข้อมูล กรุณาลองใหม่อีกครั้ง")
		return
	}

	now := time.Now()
	items, err := models.CompanyDayTotals(ctx, cfg.CompanyId, now)
	if err != nil {
		config.LogError(logger, "webhook.go", "handleTextMessage", "CompanyDayTotals", cfg.CompanyId, err)
		reply("เกิดข้อผิดพลาดในการดึงข้อมูล กรุณาลองใหม่อีกครั้ง")
		return
	}

	text := workflow.FormatCompanyReport(workflow.DailyReportHeader(now), cfg.CompanyId, items,
		cfg.NotifyBuy == nil || *cfg.NotifyBuy,
		cfg.NotifySell == nil || *cfg.NotifySell)
	if workflow.ReportIsEmpty(text) {
		reply("ยังไม่มีการอัปเดตข้อมูลสำหรับบริษัท " + cfg.CompanyId + " ในวันนี้")
		return
	}
	reply(text)
}
