package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"smart-job-bot/internal/config"
	"smart-job-bot/internal/repository"
	"smart-job-bot/internal/service"
)

const (
	cbApplyPrefix  = "apply_"
	cbSavePrefix   = "save_"
	cbUnsavePrefix = "unsave_"
	cbHidePrefix   = "hide_"
	cbPagePrefix   = "page_"

	cbMainMenu     = "main_menu"
	cbSetupProfile = "setup_profile"
	cbFindJobs     = "find_jobs"
	cbSavedList    = "saved_list"
	cbPremiumInfo  = "premium_info"
	cbBuyPremium   = "buy_premium"
	cbToolsMenu    = "tools_menu"
	cbHelpMenu     = "help_menu"
	cbToggleSearch = "toggle_search"

	cbAdminStats      = "admin_stats"
	cbAdminBroadcast  = "admin_broadcast"
	cbAdminAddVacancy = "admin_add_vacancy"
)

// Bot wires the Telegram transport to the core services. It owns no
// business state of its own; dialogue state lives in the session store.
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.Config
	profiles     *repository.ProfileRepository
	vacancies    *repository.VacancyRepository
	sessions     *service.SessionStore
	onboarding   *service.OnboardingService
	entitlements *service.EntitlementService
	catalog      *service.CatalogService
	feed         *service.FeedService
	actions      *service.ActionService
	stats        *service.StatsService
	log          *zap.Logger

	mu         sync.Mutex
	lastDigest time.Time
}

func New(
	cfg *config.Config,
	profiles *repository.ProfileRepository,
	vacancies *repository.VacancyRepository,
	sessions *service.SessionStore,
	onboarding *service.OnboardingService,
	entitlements *service.EntitlementService,
	catalog *service.CatalogService,
	feed *service.FeedService,
	actions *service.ActionService,
	stats *service.StatsService,
	log *zap.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:          api,
		cfg:          cfg,
		profiles:     profiles,
		vacancies:    vacancies,
		sessions:     sessions,
		onboarding:   onboarding,
		entitlements: entitlements,
		catalog:      catalog,
		feed:         feed,
		actions:      actions,
		stats:        stats,
		log:          log,
		lastDigest:   time.Now(),
	}, nil
}

// Start begins polling updates until ctx is cancelled. Updates for
// different users are independent units of work; failures are logged
// and never abort the loop.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error("handle callback", zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error("handle message", zap.Error(err))
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	userID := msg.From.ID

	if msg.IsCommand() {
		b.log.Debug("command",
			zap.Int64("user", userID),
			zap.String("command", msg.Command()))
		return b.handleCommand(ctx, msg)
	}

	if msg.Document != nil {
		return b.handleDocument(ctx, msg)
	}

	if sess := b.sessions.Get(userID); sess != nil && sess.AdminAction != "" {
		return b.handleAdminInput(ctx, msg, sess.AdminAction)
	}

	if b.onboarding.Active(userID) {
		return b.handleOnboardingInput(ctx, msg.Chat.ID, userID, service.Input{Text: msg.Text})
	}

	return b.sendText(msg.Chat.ID, "Я не понял сообщение. Наберите /start для настройки профиля или /help для списка команд.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "profile":
		return b.handleProfile(ctx, msg.Chat.ID, msg.From.ID)
	case "feed":
		return b.showFeed(ctx, msg.Chat.ID, msg.From.ID, 0)
	case "saved":
		return b.showSaved(ctx, msg.Chat.ID, msg.From.ID)
	case "subscription":
		return b.handleSubscription(ctx, msg.Chat.ID, msg.From.ID)
	case "tools":
		return b.sendWithKeyboard(msg.Chat.ID, toolsText, backKeyboard())
	case "help":
		return b.sendWithKeyboard(msg.Chat.ID, helpText, backKeyboard())
	case "admin":
		return b.handleAdmin(msg.Chat.ID, msg.From.ID)
	case "cancel":
		b.onboarding.Cancel(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Диалог отменён. Наберите /start, чтобы начать заново.")
	default:
		return b.sendText(msg.Chat.ID, "Команда не поддерживается. Загляните в /help.")
	}
}

// handleStart registers identity and either greets a returning user or
// launches onboarding. A restart supersedes any in-flight dialogue but
// keeps the persisted profile until new values overwrite it.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	from := msg.From
	profile, err := b.profiles.UpsertIdentity(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
	if err != nil {
		return err
	}

	if profile.Complete() && profile.ConsentGiven {
		name := strings.TrimSpace(from.FirstName)
		if name == "" {
			name = "друг"
		}
		return b.sendWithKeyboard(msg.Chat.ID,
			fmt.Sprintf("👋 С возвращением, %s!", escape(name)), mainMenuKeyboard())
	}

	return b.startOnboarding(msg.Chat.ID, from.ID)
}

func (b *Bot) startOnboarding(chatID, userID int64) error {
	b.onboarding.Start(userID)
	return b.sendWithKeyboard(chatID, welcomeText, roleKeyboard())
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID
	if !b.onboarding.Active(userID) {
		return b.sendText(msg.Chat.ID, "Файл принимается только на шаге загрузки резюме. Наберите /start.")
	}
	return b.handleOnboardingInput(ctx, msg.Chat.ID, userID, service.Input{FileName: msg.Document.FileName})
}

// handleOnboardingInput feeds one event into the state machine and
// renders the resulting prompt. Invalid input re-prompts the same step.
func (b *Bot) handleOnboardingInput(ctx context.Context, chatID, userID int64, in service.Input) error {
	reply, err := b.onboarding.Handle(ctx, userID, in)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			return b.sendText(chatID, "Диалог настройки не запущен. Наберите /start.")
		}
		return err
	}

	if reply.Done {
		if reply.ConsentGiven {
			return b.sendWithKeyboard(chatID,
				"🎉 Профиль создан! Теперь вам доступна лента вакансий.", mainMenuKeyboard())
		}
		return b.sendText(chatID,
			"❌ Для поиска вакансий нужно согласие на обработку данных. "+
				"Если передумаете — наберите /start ещё раз. Собранные данные профиля сохранены.")
	}

	if reply.Invalid {
		if err := b.sendText(chatID, "❌ "+capitalize(reply.Reason)); err != nil {
			return err
		}
	}
	return b.promptStep(chatID, reply.Step)
}

func (b *Bot) promptStep(chatID int64, step service.Step) error {
	switch step {
	case service.StepRole:
		return b.sendWithKeyboard(chatID, "🎯 Выберите вашу роль:", roleKeyboard())
	case service.StepLevel:
		return b.sendWithKeyboard(chatID, "📊 Отлично! Теперь выберите ваш уровень:", levelKeyboard())
	case service.StepFormat:
		return b.sendWithKeyboard(chatID, "📍 Выберите предпочитаемый формат работы:", formatKeyboard())
	case service.StepLocation:
		return b.sendWithKeyboard(chatID, "🌍 Выберите предпочитаемую локацию:", locationKeyboard())
	case service.StepSalary:
		return b.sendText(chatID,
			"💰 Укажите зарплатные ожидания (опционально):\n\n"+
				"Формат: <code>3000-5000 USD</code>\n"+
				"Или отправьте «-», чтобы пропустить.")
	case service.StepResume:
		return b.sendText(chatID,
			"📄 Загрузите резюме файлом (PDF, DOC, DOCX) или отправьте его текст сообщением.")
	case service.StepConsent:
		return b.sendWithKeyboard(chatID, consentText, consentKeyboard())
	default:
		return nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack", zap.Error(err))
	}

	data := cb.Data
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	// Onboarding payload tokens go straight into the state machine.
	if isOnboardingPayload(data) {
		return b.handleOnboardingInput(ctx, chatID, userID, service.Input{Payload: data})
	}

	switch {
	case strings.HasPrefix(data, cbApplyPrefix):
		return b.handleApply(ctx, chatID, userID, data)
	case strings.HasPrefix(data, cbSavePrefix):
		return b.handleSave(ctx, chatID, userID, data)
	case strings.HasPrefix(data, cbUnsavePrefix):
		return b.handleUnsave(ctx, chatID, userID, data)
	case strings.HasPrefix(data, cbHidePrefix):
		return b.handleHide(ctx, chatID, userID, data)
	case strings.HasPrefix(data, cbPagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(data, cbPagePrefix))
		if err != nil || page < 0 {
			return nil
		}
		return b.showFeed(ctx, chatID, userID, page)
	}

	switch data {
	case cbMainMenu:
		return b.sendWithKeyboard(chatID, "🏠 <b>Главное меню</b>\n\nВыберите раздел:", mainMenuKeyboard())
	case cbSetupProfile:
		return b.startOnboarding(chatID, userID)
	case cbFindJobs:
		return b.showFeed(ctx, chatID, userID, 0)
	case cbSavedList:
		return b.showSaved(ctx, chatID, userID)
	case cbPremiumInfo:
		return b.sendWithKeyboard(chatID, premiumInfoText, premiumKeyboard())
	case cbBuyPremium:
		return b.handleBuyPremium(ctx, chatID, userID)
	case cbToolsMenu:
		return b.sendWithKeyboard(chatID, toolsText, backKeyboard())
	case cbHelpMenu:
		return b.sendWithKeyboard(chatID, helpText, backKeyboard())
	case cbToggleSearch:
		return b.handleToggleSearch(ctx, chatID, userID)
	case cbAdminStats:
		return b.showAdminStats(ctx, chatID, userID)
	case cbAdminBroadcast:
		return b.startAdminAction(chatID, userID, service.AdminActionBroadcast)
	case cbAdminAddVacancy:
		return b.startAdminAction(chatID, userID, service.AdminActionAddVacancy)
	default:
		b.log.Debug("unknown callback", zap.String("data", data))
		return nil
	}
}

func isOnboardingPayload(data string) bool {
	return strings.HasPrefix(data, service.CallbackRolePrefix) ||
		strings.HasPrefix(data, service.CallbackLevelPrefix) ||
		strings.HasPrefix(data, service.CallbackFormatPrefix) ||
		data == service.CallbackLocationAny ||
		data == service.CallbackConsentYes ||
		data == service.CallbackConsentNo
}

func (b *Bot) handleToggleSearch(ctx context.Context, chatID, userID int64) error {
	profile, err := b.profiles.FindByTelegramID(ctx, userID)
	if err != nil {
		return err
	}
	next := !profile.SearchActive
	if err := b.profiles.SetSearchActive(ctx, userID, next); err != nil {
		return err
	}
	if next {
		return b.sendText(chatID, "▶️ Поиск возобновлён.")
	}
	return b.sendText(chatID, "⏸️ Поиск поставлен на паузу. Дайджесты приходить не будут.")
}

func parseVacancyID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}
