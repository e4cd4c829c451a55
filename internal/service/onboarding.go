package service

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"smart-job-bot/internal/repository"
)

// Callback payload tokens owned by the dialogue. The transport builds
// its buttons from the same constants.
const (
	CallbackRolePrefix   = "role_"
	CallbackLevelPrefix  = "level_"
	CallbackFormatPrefix = "format_"
	CallbackLocationAny  = "location_remote"
	CallbackConsentYes   = "consent_yes"
	CallbackConsentNo    = "consent_no"
)

// Closed choice sets for the enumerated steps.
var (
	Roles   = []string{"backend", "frontend", "fullstack", "devops", "ai", "design", "product", "marketing", "sales", "content", "support"}
	Levels  = []string{"junior", "middle", "senior", "lead"}
	Formats = []string{"remote", "hybrid", "office", "contract"}

	// Currencies accepted by the salary step.
	Currencies = []string{"USD", "EUR", "RUB", "GBP"}
)

var salaryPattern = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)\s+([A-Za-z]{3})$`)

var resumeExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

// Input is one inbound dialogue event: a free-text message, a button
// press carrying an opaque payload token, or a document upload.
type Input struct {
	Text     string
	Payload  string
	FileName string
}

// Reply tells the transport what to do next. When Invalid is set the
// dialogue stays on the same step and nothing was stored.
type Reply struct {
	Step         Step
	Invalid      bool
	Reason       string
	Done         bool
	ConsentGiven bool
}

// OnboardingService drives the multi-step profile dialogue. Each user's
// transitions are serialized by a per-user lock; conflicting steps can
// never race into an inconsistent draft.
type OnboardingService struct {
	sessions *SessionStore
	profiles *repository.ProfileRepository
	locks    *userLocks
	log      *zap.Logger
}

func NewOnboardingService(sessions *SessionStore, profiles *repository.ProfileRepository, log *zap.Logger) *OnboardingService {
	return &OnboardingService{
		sessions: sessions,
		profiles: profiles,
		locks:    newUserLocks(),
		log:      log,
	}
}

// Start begins a fresh dialogue, superseding any in-flight session for
// the user. The previously persisted profile is left intact until new
// values overwrite it field by field.
func (s *OnboardingService) Start(telegramID int64) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	s.sessions.Put(telegramID, &Session{Step: StepRole})
	s.log.Info("onboarding started", zap.Int64("user", telegramID))
}

// Active reports whether the user has a live onboarding dialogue.
func (s *OnboardingService) Active(telegramID int64) bool {
	sess := s.sessions.Get(telegramID)
	return sess != nil && sess.AdminAction == ""
}

// Cancel drops the in-flight dialogue without touching the profile.
func (s *OnboardingService) Cancel(telegramID int64) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	s.sessions.Delete(telegramID)
}

// Handle feeds one inbound event into the state machine. Accepted input
// mutates exactly one draft field and advances one step; rejected input
// leaves both the draft and the persisted profile untouched.
func (s *OnboardingService) Handle(ctx context.Context, telegramID int64, in Input) (Reply, error) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	sess := s.sessions.Get(telegramID)
	if sess == nil || sess.AdminAction != "" {
		return Reply{}, ErrNoSession
	}

	switch sess.Step {
	case StepRole:
		return s.handleChoice(telegramID, sess, in.Payload, CallbackRolePrefix, Roles, &sess.Draft.Role, StepLevel)
	case StepLevel:
		return s.handleChoice(telegramID, sess, in.Payload, CallbackLevelPrefix, Levels, &sess.Draft.Level, StepFormat)
	case StepFormat:
		return s.handleChoice(telegramID, sess, in.Payload, CallbackFormatPrefix, Formats, &sess.Draft.WorkFormat, StepLocation)
	case StepLocation:
		if in.Payload != CallbackLocationAny {
			return s.retry(sess, "выберите локацию кнопкой"), nil
		}
		sess.Draft.Location = "Remote"
		return s.advance(telegramID, sess, StepSalary), nil
	case StepSalary:
		return s.handleSalary(telegramID, sess, in)
	case StepResume:
		return s.handleResume(ctx, telegramID, sess, in)
	case StepConsent:
		return s.handleConsent(ctx, telegramID, sess, in)
	default:
		s.sessions.Delete(telegramID)
		return Reply{}, fmt.Errorf("unknown onboarding step %d", sess.Step)
	}
}

func (s *OnboardingService) handleChoice(telegramID int64, sess *Session, payload, prefix string, allowed []string, field *string, next Step) (Reply, error) {
	if !strings.HasPrefix(payload, prefix) {
		return s.retry(sess, "выберите вариант кнопкой"), nil
	}
	value := strings.TrimPrefix(payload, prefix)
	if !contains(allowed, value) {
		return s.retry(sess, "такого варианта нет"), nil
	}
	*field = value
	return s.advance(telegramID, sess, next), nil
}

func (s *OnboardingService) handleSalary(telegramID int64, sess *Session, in Input) (Reply, error) {
	text := strings.TrimSpace(in.Text)
	if in.Payload != "" || text == "" {
		return s.retry(sess, "отправьте зарплату текстом в формате 3000-5000 USD или «-» чтобы пропустить"), nil
	}

	if isSkipInput(text) {
		sess.Draft.SalaryMin = nil
		sess.Draft.SalaryMax = nil
		sess.Draft.Currency = ""
		return s.advance(telegramID, sess, StepResume), nil
	}

	min, max, currency, verr := ParseSalaryRange(text)
	if verr != nil {
		return s.retry(sess, verr.Reason), nil
	}
	sess.Draft.SalaryMin = &min
	sess.Draft.SalaryMax = &max
	sess.Draft.Currency = currency
	return s.advance(telegramID, sess, StepResume), nil
}

func (s *OnboardingService) handleResume(ctx context.Context, telegramID int64, sess *Session, in Input) (Reply, error) {
	switch {
	case in.FileName != "":
		ext := strings.ToLower(filepath.Ext(in.FileName))
		if _, ok := resumeExtensions[ext]; !ok {
			return s.retry(sess, "поддерживаются только файлы PDF, DOC и DOCX"), nil
		}
		sess.Draft.ResumeText = "Файл резюме: " + in.FileName
	case strings.TrimSpace(in.Text) != "":
		sess.Draft.ResumeText = strings.TrimSpace(in.Text)
	default:
		return s.retry(sess, "отправьте текст резюме или файл PDF/DOC/DOCX"), nil
	}

	// The partial profile is persisted before consent is asked, so an
	// abandoned dialogue still leaves usable data behind.
	if err := s.profiles.SaveOnboarding(ctx, telegramID, &sess.Draft); err != nil {
		return Reply{}, err
	}

	s.log.Info("onboarding profile persisted",
		zap.Int64("user", telegramID),
		zap.String("role", sess.Draft.Role),
		zap.String("level", sess.Draft.Level))

	return s.advance(telegramID, sess, StepConsent), nil
}

func (s *OnboardingService) handleConsent(ctx context.Context, telegramID int64, sess *Session, in Input) (Reply, error) {
	switch in.Payload {
	case CallbackConsentYes:
		if err := s.profiles.SetConsent(ctx, telegramID, true); err != nil {
			return Reply{}, err
		}
		s.sessions.Delete(telegramID)
		s.log.Info("consent given", zap.Int64("user", telegramID))
		return Reply{Done: true, ConsentGiven: true}, nil
	case CallbackConsentNo:
		if err := s.profiles.SetConsent(ctx, telegramID, false); err != nil {
			return Reply{}, err
		}
		s.sessions.Delete(telegramID)
		s.log.Info("consent declined", zap.Int64("user", telegramID))
		return Reply{Done: true, ConsentGiven: false}, nil
	default:
		return s.retry(sess, "ответьте кнопкой «Согласен» или «Не согласен»"), nil
	}
}

func (s *OnboardingService) advance(telegramID int64, sess *Session, next Step) Reply {
	sess.Step = next
	s.sessions.Touch(telegramID)
	return Reply{Step: next}
}

func (s *OnboardingService) retry(sess *Session, reason string) Reply {
	return Reply{Step: sess.Step, Invalid: true, Reason: reason}
}

// ParseSalaryRange parses "<min>-<max> <CUR>" with the currency drawn
// from the supported set and min not above max.
func ParseSalaryRange(text string) (min, max int, currency string, verr *ValidationError) {
	match := salaryPattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return 0, 0, "", newValidationError("salary", "используйте формат 3000-5000 USD")
	}

	min, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, "", newValidationError("salary", "минимальная зарплата должна быть числом")
	}
	max, err = strconv.Atoi(match[2])
	if err != nil {
		return 0, 0, "", newValidationError("salary", "максимальная зарплата должна быть числом")
	}
	if min > max {
		return 0, 0, "", newValidationError("salary", "минимум не может быть больше максимума")
	}

	currency = strings.ToUpper(match[3])
	if !contains(Currencies, currency) {
		return 0, 0, "", newValidationError("salary", "валюта должна быть одной из: "+strings.Join(Currencies, ", "))
	}
	return min, max, currency, nil
}

func isSkipInput(text string) bool {
	value := strings.ToLower(strings.TrimSpace(text))
	return value == "-" || value == "skip" || value == "пропустить"
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
