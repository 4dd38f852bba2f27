package main

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// Photos above this size get recompressed by Telegram, so they go as documents.
const maxSizePhoto = 150000

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramSender struct {
	api    botAPI
	chatID int64
}

func newTelegramSender(token string, chatID int64) (*telegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &telegramSender{api: bot, chatID: chatID}, nil
}

// SendGraph posts the PNG with the title as caption.
func (s *telegramSender) SendGraph(graph []byte, fileName, caption string) error {
	pngFile := tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: graph,
	}

	var msg tgbotapi.Chattable
	if len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(s.chatID, pngFile)
		photo.Caption = caption
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(s.chatID, pngFile)
		doc.Caption = caption
		msg = doc
	}

	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("sending %s to chat %d: %w", fileName, s.chatID, err)
	}
	return nil
}
