package bot

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"smart-job-bot/internal/model"
	"smart-job-bot/internal/service"
)

const premiumPriceUSD = 4.99

const welcomeText = "🚀 <b>Smart Job Bot</b> — ваш персональный помощник в поиске работы!\n\n" +
	"Я помогу:\n" +
	"• Найти релевантные вакансии\n" +
	"• Отслеживать новые предложения\n" +
	"• Откликаться в один клик\n\n" +
	"Давайте настроим ваш профиль!\n\n🎯 Выберите вашу роль:"

const consentText = "📝 <b>Согласие на обработку персональных данных</b>\n\n" +
	"Для работы сервиса нам необходимо обрабатывать ваши персональные данные. " +
	"Мы гарантируем конфиденциальность и используем данные только для подбора вакансий.\n\n" +
	"Вы согласны на обработку персональных данных?"

const premiumInfoText = "💎 <b>Smart Job Bot Premium</b>\n\n" +
	"<b>Что вы получаете:</b>\n" +
	"• 🔓 Неограниченные отклики на вакансии\n" +
	"• 🚀 Ранний доступ к новым вакансиям\n" +
	"• 🔍 Приоритет в поиске\n" +
	"• 👀 Видимость названий компаний и контактов\n\n" +
	"<b>Стоимость:</b> $4.99 в месяц"

const toolsText = "🛠 <b>Дополнительные сервисы</b>\n\n" +
	"1. <b>AI анализ резюме</b> — детальный разбор и рекомендации\n" +
	"2. <b>Сопроводительное письмо</b> — персонализация под вакансию\n" +
	"3. <b>Подготовка к собеседованию</b> — вопросы и кейсы по вашей роли\n" +
	"4. <b>Консультация HR-эксперта</b> — разбор профиля 1-на-1\n\n" +
	"Для заказа услуги напишите в поддержку."

const helpText = "📖 <b>Справка по Smart Job Bot</b>\n\n" +
	"<b>Команды:</b>\n" +
	"/start — настройка профиля\n" +
	"/profile — мой профиль\n" +
	"/feed — лента вакансий\n" +
	"/saved — сохранённые вакансии\n" +
	"/subscription — подписка\n" +
	"/tools — дополнительные сервисы\n" +
	"/cancel — отменить текущий диалог\n" +
	"/help — эта справка\n\n" +
	"<b>Система подписок:</b>\n" +
	"• Бесплатно: 10 откликов, базовый поиск\n" +
	"• Premium ($4.99/мес): без ограничений, ранний доступ"

func formatVacancy(vacancy model.Vacancy) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚀 <b>%s</b>\n\n", escape(vacancy.Title)))
	sb.WriteString(fmt.Sprintf("🏢 <b>Компания:</b> %s\n", escape(vacancy.Company)))
	if vacancy.SalaryMin != nil && vacancy.SalaryMax != nil {
		sb.WriteString(fmt.Sprintf("💵 <b>Зарплата:</b> %d–%d %s\n",
			*vacancy.SalaryMin, *vacancy.SalaryMax, escape(vacancy.Currency)))
	}
	sb.WriteString(fmt.Sprintf("📍 <b>Локация:</b> %s | %s\n", escape(vacancy.Location), escape(vacancy.WorkFormat)))
	if vacancy.Description != "" {
		sb.WriteString(fmt.Sprintf("\n📝 %s\n", escape(vacancy.Description)))
	}
	if vacancy.Requirements != "" {
		sb.WriteString(fmt.Sprintf("\n🔧 <b>Требования:</b> %s\n", escape(vacancy.Requirements)))
	}
	return strings.TrimSpace(sb.String())
}

func formatApplyResult(result *service.ApplyResult) string {
	vacancy := result.Vacancy

	var contact string
	switch {
	case vacancy.ApplyURL != "":
		contact = fmt.Sprintf("📨 <b>Ссылка для отклика:</b> %s", escape(vacancy.ApplyURL))
	case vacancy.Contacts != "":
		contact = fmt.Sprintf("📧 <b>Контакты:</b> %s", escape(vacancy.Contacts))
	default:
		contact = "ℹ️ Контактная информация не указана"
	}

	remaining := fmt.Sprintf("Осталось откликов: %d", result.Quota.Remaining)
	if result.Quota.Premium {
		remaining = "Откликов: ∞ (Premium)"
	}

	return fmt.Sprintf("📨 <b>Отклик на вакансию</b>\n\n<b>%s</b> — %s\n\n%s\n\n%s",
		escape(vacancy.Title), escape(vacancy.Company), contact, remaining)
}

func formatProfile(profile *model.UserProfile, quota service.Quota) string {
	salary := "Не указано"
	if profile.SalaryMin != nil && profile.SalaryMax != nil {
		salary = fmt.Sprintf("%d–%d %s", *profile.SalaryMin, *profile.SalaryMax, profile.Currency)
	}

	searchStatus := "Активен ✅"
	if !profile.SearchActive {
		searchStatus = "На паузе ⏸️"
	}

	subscription := "Free"
	applications := fmt.Sprintf("%d", quota.Remaining)
	if quota.Premium {
		subscription = "Premium 🚀"
		applications = "∞"
	}

	return fmt.Sprintf(
		"👤 <b>Ваш профиль</b>\n\n"+
			"🎯 <b>Роль:</b> %s\n"+
			"📊 <b>Уровень:</b> %s\n"+
			"📍 <b>Формат:</b> %s\n"+
			"🌍 <b>Локация:</b> %s\n"+
			"💰 <b>Зарплата:</b> %s\n\n"+
			"🔍 <b>Статус поиска:</b> %s\n"+
			"💎 <b>Подписка:</b> %s\n"+
			"📨 <b>Осталось откликов:</b> %s",
		escape(capitalize(profile.Role)),
		escape(capitalize(profile.Level)),
		escape(capitalize(profile.WorkFormat)),
		escape(profile.Location),
		escape(salary),
		searchStatus,
		subscription,
		applications,
	)
}

func formatSubscription(quota service.Quota) string {
	status := "❌ Не активна"
	applications := fmt.Sprintf("Осталось откликов: %d", quota.Remaining)
	if quota.Premium {
		status = "✅ Активна"
		applications = "Откликов: ∞ (без ограничений)"
	}

	return fmt.Sprintf(
		"💎 <b>Ваша подписка</b>\n\nСтатус: %s\n%s\n\n"+
			"<b>Премиум подписка даёт:</b>\n"+
			"• 🔓 Неограниченные отклики\n"+
			"• 🚀 Ранний доступ к вакансиям\n"+
			"• 👀 Видимость названий компаний\n\n"+
			"<b>Стоимость:</b> $4.99 в месяц",
		status, applications)
}

func escape(s string) string {
	return html.EscapeString(s)
}

func capitalize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
