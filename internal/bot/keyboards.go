package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"smart-job-bot/internal/service"
)

func payload(prefix string, id uint) string {
	return prefix + strconv.FormatUint(uint64(id), 10)
}

func payloadInt(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}

// choiceRows lays out choice buttons two per row with the payload built
// from the state machine's token prefix.
func choiceRows(values []string, prefix string) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, value := range values {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(capitalize(value), prefix+value))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func roleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(choiceRows(service.Roles, service.CallbackRolePrefix)...)
}

func levelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(choiceRows(service.Levels, service.CallbackLevelPrefix)...)
}

func formatKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(choiceRows(service.Formats, service.CallbackFormatPrefix)...)
}

func locationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Remote (любая локация)", service.CallbackLocationAny),
		),
	)
}

func consentKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Согласен", service.CallbackConsentYes),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Не согласен", service.CallbackConsentNo),
		),
	)
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎯 Профиль", cbSetupProfile)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔍 Лента вакансий", cbFindJobs)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⭐ Сохранённые", cbSavedList)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💎 Подписка", cbPremiumInfo)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🛠 Инструменты", cbToolsMenu)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📖 Помощь", cbHelpMenu)),
	)
}

func setupKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Настроить профиль", cbSetupProfile),
		),
	)
}

func backKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", cbMainMenu),
		),
	)
}

func premiumKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Купить Premium ($4.99/мес)", cbBuyPremium),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", cbMainMenu),
		),
	)
}

func subscriptionKeyboard(premium bool) tgbotapi.InlineKeyboardMarkup {
	if premium {
		return backKeyboard()
	}
	return premiumKeyboard()
}

func profileKeyboard(searchActive bool) tgbotapi.InlineKeyboardMarkup {
	toggleLabel := "⏸️ Пауза поиска"
	if !searchActive {
		toggleLabel = "▶️ Возобновить поиск"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить профиль", cbSetupProfile)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(toggleLabel, cbToggleSearch)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("💎 Подписка", cbPremiumInfo)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", cbMainMenu)),
	)
}

func vacancyKeyboard(item service.FeedItem) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if item.CanApply {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("📨 Откликнуться", payload(cbApplyPrefix, item.Vacancy.ID)))
	} else {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🔒 Отклик (Premium)", cbPremiumInfo))
	}
	row = append(row,
		tgbotapi.NewInlineKeyboardButtonData("❤️ Сохранить", payload(cbSavePrefix, item.Vacancy.ID)),
		tgbotapi.NewInlineKeyboardButtonData("👎 Скрыть", payload(cbHidePrefix, item.Vacancy.ID)),
	)
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func savedVacancyKeyboard(item service.FeedItem) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if item.CanApply {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("📨 Откликнуться", payload(cbApplyPrefix, item.Vacancy.ID)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("🗑 Убрать", payload(cbUnsavePrefix, item.Vacancy.ID)))
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func paginationKeyboard(page int, hasMore bool) (tgbotapi.InlineKeyboardMarkup, bool) {
	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", payloadInt(cbPagePrefix, page-1)))
	}
	if hasMore {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Вперёд ➡️", payloadInt(cbPagePrefix, page+1)))
	}
	if len(row) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(row), true
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", cbAdminStats)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📢 Рассылка", cbAdminBroadcast)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Добавить вакансию", cbAdminAddVacancy)),
	)
}
