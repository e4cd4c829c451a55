package service

import "testing"

func TestParseVacancyText(t *testing.T) {
	text := `Senior Go Developer
Acme Corp | FinTech
Зарплата: 4000-6000 USD
Локация: Remote / Amsterdam
Формат: remote
Роль: backend
Уровень: senior
Описание: Разработка платёжного ядра
Требования: Go, PostgreSQL, Kafka
Контакты: https://acme.example.com/jobs/42`

	vacancy, err := ParseVacancyText(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if vacancy.Title != "Senior Go Developer" {
		t.Errorf("title = %q", vacancy.Title)
	}
	if vacancy.Company != "Acme Corp" || vacancy.Industry != "FinTech" {
		t.Errorf("company = %q, industry = %q", vacancy.Company, vacancy.Industry)
	}
	if vacancy.SalaryMin == nil || vacancy.SalaryMax == nil {
		t.Fatal("salary not parsed")
	}
	if *vacancy.SalaryMin != 4000 || *vacancy.SalaryMax != 6000 || vacancy.Currency != "USD" {
		t.Errorf("salary = %d-%d %s", *vacancy.SalaryMin, *vacancy.SalaryMax, vacancy.Currency)
	}
	if vacancy.Location != "Remote / Amsterdam" {
		t.Errorf("location = %q", vacancy.Location)
	}
	if vacancy.Role != "backend" || vacancy.Level != "senior" {
		t.Errorf("role = %q, level = %q", vacancy.Role, vacancy.Level)
	}
	if vacancy.ApplyURL != "https://acme.example.com/jobs/42" {
		t.Errorf("apply url = %q", vacancy.ApplyURL)
	}
	if vacancy.Source != "admin" {
		t.Errorf("source = %q, want admin", vacancy.Source)
	}
}

func TestParseVacancyTextEnglishKeysAndEmailContact(t *testing.T) {
	text := `Frontend Developer
Web Studio
Salary: 2000-3000 EUR
Contacts: jobs@webstudio.example`

	vacancy, err := ParseVacancyText(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if vacancy.Currency != "EUR" {
		t.Errorf("currency = %q", vacancy.Currency)
	}
	if vacancy.Contacts != "jobs@webstudio.example" {
		t.Errorf("contacts = %q", vacancy.Contacts)
	}
	if vacancy.ApplyURL != "" {
		t.Errorf("apply url = %q, email must not become a link", vacancy.ApplyURL)
	}
	// Defaults survive when the optional lines are absent.
	if vacancy.Location != "Remote" || vacancy.WorkFormat != "remote" {
		t.Errorf("defaults = %q / %q", vacancy.Location, vacancy.WorkFormat)
	}
}

func TestParseVacancyTextRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"too short":  "Только название",
		"bad salary": "Title\nCompany\nЗарплата: много",
	}
	for name, text := range cases {
		if _, err := ParseVacancyText(text); err == nil {
			t.Errorf("%s: accepted", name)
			continue
		} else if _, ok := AsValidation(err); !ok {
			t.Errorf("%s: error %v is not a ValidationError", name, err)
		}
	}
}
