package workflow

import (
	"context"
	"errors"

	"bitbucket.org/sornidev/weighbridge_backend/config"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// LinePusher adapts the LINE client to the MessagePusher interface.
type LinePusher struct{}

func (LinePusher) Push(ctx context.Context, to string, text string) error {
	bot := config.GetLineBot()
	if bot == nil {
		return errors.New("line client not ready")
	}
	_, err := bot.PushMessage(to, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	return err
}
