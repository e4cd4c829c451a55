package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"smart-job-bot/internal/repository"
	"smart-job-bot/internal/service"
)

func (b *Bot) handleAdmin(chatID, userID int64) error {
	if !b.cfg.IsAdmin(userID) {
		return b.sendText(chatID, "❌ У вас нет доступа к админ-панели.")
	}
	return b.sendWithKeyboard(chatID, "🛠️ <b>Админ-панель</b>\n\nВыберите действие:", adminKeyboard())
}

func (b *Bot) showAdminStats(ctx context.Context, chatID, userID int64) error {
	if !b.cfg.IsAdmin(userID) {
		return b.sendText(chatID, "❌ Нет доступа.")
	}

	stats, err := b.stats.Collect(ctx)
	if err != nil {
		return err
	}

	text := fmt.Sprintf(
		"📊 <b>Статистика бота</b>\n\n"+
			"👥 <b>Пользователи:</b> %d\n"+
			"📋 <b>Вакансии:</b> %d\n"+
			"💎 <b>Премиум:</b> %d\n"+
			"📨 <b>Отклики:</b> %d",
		stats.Users, stats.Vacancies, stats.Premium, stats.Applications)

	return b.sendWithKeyboard(chatID, text, adminKeyboard())
}

// startAdminAction arms the session so the next text message is consumed
// by the chosen admin flow. Mutually exclusive with onboarding.
func (b *Bot) startAdminAction(chatID, userID int64, action string) error {
	if !b.cfg.IsAdmin(userID) {
		return b.sendText(chatID, "❌ Нет доступа.")
	}

	b.sessions.Put(userID, &service.Session{AdminAction: action})

	switch action {
	case service.AdminActionBroadcast:
		return b.sendText(chatID,
			"📢 <b>Рассылка сообщения</b>\n\nОтправьте текст, который нужно разослать всем пользователям:")
	case service.AdminActionAddVacancy:
		return b.sendText(chatID,
			"➕ <b>Добавление вакансии</b>\n\nОтправьте данные в формате:\n\n"+
				"<code>Название вакансии\n"+
				"Компания | Индустрия\n"+
				"Зарплата: 3000-4000 USD\n"+
				"Локация: Remote / Город\n"+
				"Формат: remote\n"+
				"Роль: backend\n"+
				"Уровень: middle\n"+
				"Описание: Краткое описание\n"+
				"Требования: Требования к кандидату\n"+
				"Контакты: email@example.com или ссылка</code>")
	default:
		b.sessions.Delete(userID)
		return nil
	}
}

func (b *Bot) handleAdminInput(ctx context.Context, msg *tgbotapi.Message, action string) error {
	userID := msg.From.ID
	b.sessions.Delete(userID)

	if !b.cfg.IsAdmin(userID) {
		return b.sendText(msg.Chat.ID, "❌ Нет доступа.")
	}

	switch action {
	case service.AdminActionBroadcast:
		sent, failed, err := b.Broadcast(ctx, msg.Text)
		if err != nil {
			return err
		}
		return b.sendText(msg.Chat.ID,
			fmt.Sprintf("✅ Рассылка завершена! Доставлено: %d, не доставлено: %d.", sent, failed))
	case service.AdminActionAddVacancy:
		vacancy, created, err := b.catalog.IngestText(ctx, msg.Text)
		if err != nil {
			if verr, ok := service.AsValidation(err); ok {
				return b.sendText(msg.Chat.ID, "❌ Ошибка в формате вакансии: "+escape(verr.Reason))
			}
			return err
		}
		if !created {
			return b.sendText(msg.Chat.ID, "Такая вакансия уже есть в базе, дубликат не добавлен.")
		}
		return b.sendText(msg.Chat.ID,
			fmt.Sprintf("✅ Вакансия «%s» добавлена (#%d).", escape(vacancy.Title), vacancy.ID))
	default:
		return nil
	}
}

// Broadcast fans a message out to every known user. Best-effort: a
// failed delivery is counted and skipped, never propagated.
func (b *Bot) Broadcast(ctx context.Context, text string) (sent, failed int, err error) {
	ids, err := b.profiles.ListTelegramIDs(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return sent, failed, ctx.Err()
		default:
		}
		if err := b.sendText(id, text); err != nil {
			failed++
			b.log.Warn("broadcast delivery failed", zap.Int64("user", id), zap.Error(err))
			continue
		}
		sent++
	}

	b.log.Info("broadcast finished", zap.Int("sent", sent), zap.Int("failed", failed))
	return sent, failed, nil
}

// SendVacancyDigests tells each search-eligible user how many new
// matching vacancies arrived since the previous sweep. Best-effort per
// recipient, like Broadcast.
func (b *Bot) SendVacancyDigests(ctx context.Context) error {
	b.mu.Lock()
	since := b.lastDigest
	b.lastDigest = time.Now()
	b.mu.Unlock()

	profiles, err := b.profiles.ListSearchEligible(ctx)
	if err != nil {
		return err
	}

	for _, profile := range profiles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		filters := repository.VacancyFilters{
			Role:       profile.Role,
			Level:      profile.Level,
			WorkFormat: profile.WorkFormat,
		}
		count, err := b.vacancies.CountSince(ctx, filters, since)
		if err != nil {
			b.log.Warn("digest count failed", zap.Int64("user", profile.TelegramID), zap.Error(err))
			continue
		}
		if count == 0 {
			continue
		}

		text := fmt.Sprintf("🔔 По вашему профилю появилось новых вакансий: %d. Посмотрите ленту — /feed", count)
		if err := b.sendText(profile.TelegramID, text); err != nil {
			b.log.Warn("digest delivery failed", zap.Int64("user", profile.TelegramID), zap.Error(err))
		}
	}

	return nil
}
