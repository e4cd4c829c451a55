package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-job-bot/internal/service"
)

func (b *Bot) showFeed(ctx context.Context, chatID, userID int64, page int) error {
	feedPage, err := b.feed.BuildPage(ctx, userID, page)
	if err != nil {
		if errors.Is(err, service.ErrProfileIncomplete) {
			return b.sendWithKeyboard(chatID,
				"Профиль не настроен. Пройдите настройку, чтобы получить ленту вакансий.",
				setupKeyboard())
		}
		return err
	}

	if len(feedPage.Items) == 0 {
		if page == 0 {
			return b.sendText(chatID,
				"😔 Пока нет подходящих вакансий. Попробуйте позже или измените профиль через /start.")
		}
		return b.sendText(chatID, "На этой странице вакансий не осталось.")
	}

	for _, item := range feedPage.Items {
		if err := b.sendWithKeyboard(chatID, formatVacancy(item.Vacancy), vacancyKeyboard(item)); err != nil {
			return err
		}
	}

	if markup, ok := paginationKeyboard(feedPage.Page, feedPage.HasMore); ok {
		return b.sendWithKeyboard(chatID, "Навигация:", markup)
	}
	return nil
}

func (b *Bot) showSaved(ctx context.Context, chatID, userID int64) error {
	items, err := b.feed.SavedPage(ctx, userID, b.cfg.SavedPageSize)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return b.sendText(chatID, "У вас нет сохранённых вакансий.")
	}

	for _, item := range items {
		text := "⭐ <b>Сохранённая вакансия</b>\n\n" + formatVacancy(item.Vacancy)
		if err := b.sendWithKeyboard(chatID, text, savedVacancyKeyboard(item)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleApply(ctx context.Context, chatID, userID int64, data string) error {
	vacancyID, err := parseVacancyID(data, cbApplyPrefix)
	if err != nil {
		return nil
	}

	result, err := b.actions.Apply(ctx, userID, vacancyID)
	switch {
	case errors.Is(err, service.ErrVacancyNotFound):
		return b.sendText(chatID, "Вакансия больше не доступна.")
	case errors.Is(err, service.ErrQuotaExceeded):
		return b.sendWithKeyboard(chatID,
			"❌ У вас закончились бесплатные отклики!\n\n"+
				"💎 Перейдите на Premium, чтобы откликаться без ограничений:",
			premiumKeyboard())
	case err != nil:
		return err
	}

	return b.sendText(chatID, formatApplyResult(result))
}

func (b *Bot) handleSave(ctx context.Context, chatID, userID int64, data string) error {
	vacancyID, err := parseVacancyID(data, cbSavePrefix)
	if err != nil {
		return nil
	}
	if err := b.actions.Save(ctx, userID, vacancyID); err != nil {
		return err
	}
	return b.sendText(chatID, "✅ Вакансия сохранена!")
}

func (b *Bot) handleUnsave(ctx context.Context, chatID, userID int64, data string) error {
	vacancyID, err := parseVacancyID(data, cbUnsavePrefix)
	if err != nil {
		return nil
	}
	if err := b.actions.Unsave(ctx, userID, vacancyID); err != nil {
		return err
	}
	return b.sendText(chatID, "🗑 Вакансия убрана из сохранённых.")
}

func (b *Bot) handleHide(ctx context.Context, chatID, userID int64, data string) error {
	vacancyID, err := parseVacancyID(data, cbHidePrefix)
	if err != nil {
		return nil
	}
	if err := b.actions.Hide(ctx, userID, vacancyID); err != nil {
		return err
	}
	return b.sendText(chatID, "✅ Вакансия скрыта и больше не появится в ленте.")
}

func (b *Bot) handleProfile(ctx context.Context, chatID, userID int64) error {
	profile, err := b.profiles.FindByTelegramID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return b.sendWithKeyboard(chatID,
				"Профиль не настроен. Пройдите настройку через /start.", setupKeyboard())
		}
		return err
	}
	if !profile.Complete() {
		return b.sendWithKeyboard(chatID,
			"Профиль не настроен. Пройдите настройку через /start.", setupKeyboard())
	}

	quota, err := b.entitlements.Peek(ctx, userID)
	if err != nil {
		return err
	}

	return b.sendWithKeyboard(chatID, formatProfile(profile, quota), profileKeyboard(profile.SearchActive))
}

func (b *Bot) handleSubscription(ctx context.Context, chatID, userID int64) error {
	quota, err := b.entitlements.Peek(ctx, userID)
	if err != nil {
		return err
	}
	return b.sendWithKeyboard(chatID, formatSubscription(quota), subscriptionKeyboard(quota.Premium))
}

// handleBuyPremium is the single "grant premium" call; actual payment
// processing lives outside this service.
func (b *Bot) handleBuyPremium(ctx context.Context, chatID, userID int64) error {
	quota, err := b.entitlements.GrantPremium(ctx, userID, b.cfg.PremiumDuration, premiumPriceUSD)
	if err != nil {
		return err
	}

	b.log.Info("premium purchase",
		zap.Int64("user", userID),
		zap.Bool("premium", quota.Premium))

	return b.sendText(chatID,
		"🎉 <b>Поздравляем!</b>\n\n"+
			"Premium подписка активирована:\n"+
			"• 🔓 Неограниченные отклики\n"+
			"• 🚀 Ранний доступ к вакансиям\n"+
			"• 👀 Видимость компаний и контактов\n\n"+
			fmt.Sprintf("Подписка действует %d дней.", int(b.cfg.PremiumDuration.Hours()/24)))
}
