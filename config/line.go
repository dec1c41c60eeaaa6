package config

import (
	"log"
	"os"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

var (
	lineBot *linebot.Client
)

func GetLineBot() *linebot.Client {
	return lineBot
}

// ConnectLine builds the messaging client from env credentials.
// Call from main(); a missing credential leaves the client nil and the
// dispatcher degrades to skip-with-log (useful for local dev).
func ConnectLine() {
	secret := os.Getenv("LINE_CHANNEL_SECRET")
	token := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	if secret == "" || token == "" {
		log.Printf("LINE_CHANNEL_SECRET / LINE_CHANNEL_ACCESS_TOKEN not set; messaging disabled")
		return
	}
	bot, err := linebot.New(secret, token)
	if err != nil {
		log.Printf("failed to build line client: %v", err)
		return
	}
	lineBot = bot
	log.Printf("line messaging client ready")
}

// NotifyAdmin pushes an operator alert to ADMIN_LINE_UID. Best effort:
// alerting must never fail the operation that triggered it.
func NotifyAdmin(message string) {
	adminUid := os.Getenv("ADMIN_LINE_UID")
	if adminUid == "" {
		GetLogger().Warn("ADMIN_LINE_UID not set; cannot send admin notification")
		return
	}
	if lineBot == nil {
		GetLogger().Warn("line client not ready; cannot send admin notification")
		return
	}
	if _, err := lineBot.PushMessage(adminUid, linebot.NewTextMessage("[ADMIN ALERT] "+message)).Do(); err != nil {
		GetLogger().Error("failed to send admin notification: " + err.Error())
	}
}
