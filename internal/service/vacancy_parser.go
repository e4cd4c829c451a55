package service

import (
	"strings"

	"smart-job-bot/internal/model"
)

// ParseVacancyText turns the operator's line-oriented vacancy format
// into a typed record:
//
//	Название вакансии
//	Компания | Индустрия
//	Зарплата: 3000-4000 USD
//	Локация: Remote / Город
//	Формат: remote
//	Описание: ...
//	Требования: ...
//	Контакты: email@example.com или ссылка
//
// The parser is deliberately independent of the catalog so structured
// input paths can reuse it. A malformed message yields a
// ValidationError, never a partially-built record.
func ParseVacancyText(text string) (*model.Vacancy, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 3 {
		return nil, newValidationError("vacancy", "нужно минимум три строки: название, компания и описание")
	}

	vacancy := &model.Vacancy{
		Title:      lines[0],
		Location:   "Remote",
		WorkFormat: "remote",
		Source:     "admin",
	}

	if company, industry, ok := strings.Cut(lines[1], "|"); ok {
		vacancy.Company = strings.TrimSpace(company)
		vacancy.Industry = strings.TrimSpace(industry)
	} else {
		vacancy.Company = lines[1]
	}

	for _, line := range lines[2:] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "зарплата", "salary":
			min, max, currency, verr := ParseSalaryRange(value)
			if verr != nil {
				return nil, verr
			}
			vacancy.SalaryMin = &min
			vacancy.SalaryMax = &max
			vacancy.Currency = currency
		case "локация", "location":
			vacancy.Location = value
		case "формат", "format":
			vacancy.WorkFormat = strings.ToLower(value)
		case "роль", "role":
			vacancy.Role = strings.ToLower(value)
		case "уровень", "level":
			vacancy.Level = strings.ToLower(value)
		case "описание", "description":
			vacancy.Description = value
		case "требования", "requirements":
			vacancy.Requirements = value
		case "теги", "tags":
			vacancy.Tags = value
		case "контакты", "contacts":
			vacancy.Contacts = value
			if strings.HasPrefix(value, "http") {
				vacancy.ApplyURL = value
			}
		}
	}

	if vacancy.Title == "" {
		return nil, newValidationError("vacancy", "название вакансии не может быть пустым")
	}
	return vacancy, nil
}
