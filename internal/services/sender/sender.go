// Package services содержит воркер отправки писем по событиям брокера:
// одобрение предложения и выкуп товара магазина.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/lib/smtp"
	ideasvc "github.com/magabrotheeeer/fanlist/internal/services/idea"
	storesvc "github.com/magabrotheeeer/fanlist/internal/services/store"
)

// SenderService превращает события брокера в письма.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendSuggestionApproved уведомляет зрителя, что его предложение одобрено.
func (s *SenderService) SendSuggestionApproved(body []byte) error {
	var event ideasvc.SuggestionApprovedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.SuggesterEmail == "" {
		s.log.Warn("suggestion approved event without suggester email",
			slog.Int("idea_id", event.IdeaID))
		return nil
	}

	to := []string{event.SuggesterEmail}
	subject := "Ваша идея одобрена на Fanlist"
	bodyText := fmt.Sprintf("Здравствуйте!\n\nАвтор одобрил вашу идею «%s». Вам начислено %d балла(ов).\n\nСледите за её позицией в рейтинге.",
		event.IdeaTitle, event.PointsBonus)

	return s.sendEmail(to, subject, bodyText)
}

// SendRedemptionCreated уведомляет автора о новом выкупе награды.
func (s *SenderService) SendRedemptionCreated(body []byte) error {
	var event storesvc.RedemptionCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.CreatorEmail == "" {
		s.log.Warn("redemption event without creator email",
			slog.Int("redemption_id", event.RedemptionID))
		return nil
	}

	to := []string{event.CreatorEmail}
	subject := "Новый выкуп награды на Fanlist"
	bodyText := fmt.Sprintf("Здравствуйте!\n\nЗритель выкупил награду «%s» за %d балла(ов).\n\nПодтвердите выдачу в кабинете, когда награда будет вручена.",
		event.ItemTitle, event.PointsSpent)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
