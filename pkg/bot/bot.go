package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"rideadmin/config"
	"rideadmin/pkg/fare"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/service"
)

// Bot is the operator's Telegram console over the admin services.
type Bot struct {
	Bot *tele.Bot
	Log logger.ILogger
	Cfg *config.Config
	Svc service.IServiceManager
}

var (
	btnApprove = tele.Btn{Unique: "refund_approve"}
	btnReject  = tele.Btn{Unique: "refund_reject"}
	btnConfirm = tele.Btn{Unique: "booking_confirm"}
	btnCancel  = tele.Btn{Unique: "booking_cancel"}
	btnSuspend = tele.Btn{Unique: "customer_suspend"}
	btnResume  = tele.Btn{Unique: "customer_activate"}
	btnRead    = tele.Btn{Unique: "notification_read"}
)

const (
	menuCities     = "🏙 Cities"
	menuCategories = "🚘 Vehicle categories"
	menuBookings   = "📋 Bookings"
	menuRefunds    = "💸 Pending refunds"
	menuDashboard  = "📊 Dashboard"
	menuCustomers  = "👥 Customers"
	menuNotices    = "🔔 Notifications"
)

var messages = map[string]string{
	"welcome":        "👋 Welcome to the fare & refund console.",
	"no_entry":       "🚫 This bot is for operators only.",
	"menu":           "🛠 Admin panel:",
	"no_cities":      "📭 No cities configured.",
	"no_cats":        "📭 No vehicle categories configured.",
	"no_bookings":    "📭 No open bookings.",
	"no_refunds":     "✅ No refunds waiting for a decision.",
	"quote_usage":    "Usage: /quote <categoryID> <miles> [hours] [distance|hourly|combined]",
	"city_usage":     "Usage: /cityquote <cityID> <km> <minutes>",
	"approved":       "✅ Refund %s approved: %s",
	"rejected":       "❌ Refund %s rejected.",
	"confirmed":      "✅ Booking #%d confirmed.",
	"cancelled":      "❌ Booking #%d cancelled.",
	"failure":        "⚠️ Something went wrong, check the server logs.",
	"no_customers":   "📭 No customers registered.",
	"no_notices":     "✅ No unread notifications.",
	"announce_usage": "Usage: /announce <all_users|all_drivers> <title> | <message>",
	"announced":      "📣 Announcement #%d sent to %s.",
	"suspended":      "⏸ Customer #%d suspended.",
	"activated":      "▶️ Customer #%d activated.",
	"read":           "✔️ Marked as read.",
}

func New(cfg *config.Config, svc service.IServiceManager, log logger.ILogger) (*Bot, error) {
	log = log.With(logger.String("component", "admin_bot"))
	pref := tele.Settings{
		Token:  cfg.AdminBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("telegram handler failed", logger.Error(err))
		},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot: b,
		Log: log,
		Cfg: cfg,
		Svc: svc,
	}
	bot.registerHandlers()
	return bot, nil
}

func (b *Bot) Start() {
	b.Log.Info("🤖 admin bot started")
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

func (b *Bot) registerHandlers() {
	admin := b.Bot.Group()
	admin.Use(b.onlyAdmin)

	admin.Handle("/start", b.handleStart)
	admin.Handle("/quote", b.handleQuote)
	admin.Handle("/cityquote", b.handleCityQuote)
	admin.Handle("/announce", b.handleAnnounce)

	admin.Handle(menuCities, b.handleCities)
	admin.Handle(menuCategories, b.handleCategories)
	admin.Handle(menuBookings, b.handleBookings)
	admin.Handle(menuRefunds, b.handlePendingRefunds)
	admin.Handle(menuDashboard, b.handleDashboard)
	admin.Handle(menuCustomers, b.handleCustomers)
	admin.Handle(menuNotices, b.handleNotifications)

	admin.Handle(&btnApprove, b.handleDecision(fare.DecisionApprove))
	admin.Handle(&btnReject, b.handleDecision(fare.DecisionReject))
	admin.Handle(&btnConfirm, b.handleBookingConfirm)
	admin.Handle(&btnCancel, b.handleBookingCancel)
	admin.Handle(&btnSuspend, b.handleCustomerSuspend)
	admin.Handle(&btnResume, b.handleCustomerActivate)
	admin.Handle(&btnRead, b.handleMarkRead)
}

func (b *Bot) onlyAdmin(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !isAdmin(c.Sender(), b.Cfg.AdminID, b.Cfg.AdminUsername) {
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: messages["no_entry"], ShowAlert: true})
			}
			return c.Send(messages["no_entry"])
		}
		return next(c)
	}
}

func (b *Bot) handleStart(c tele.Context) error {
	if err := c.Send(messages["welcome"]); err != nil {
		return err
	}
	return b.showMenu(c)
}

func (b *Bot) showMenu(c tele.Context) error {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(menuCities), menu.Text(menuCategories)),
		menu.Row(menu.Text(menuBookings), menu.Text(menuRefunds)),
		menu.Row(menu.Text(menuCustomers), menu.Text(menuNotices)),
		menu.Row(menu.Text(menuDashboard)),
	)
	return c.Send(messages["menu"], menu)
}

// Notify pushes a notification to the admin chat. Without a numeric admin id
// there is no chat to write to and the notification only stays stored.
func (b *Bot) Notify(ctx context.Context, n *models.Notification) error {
	if b.Cfg.AdminID == 0 {
		b.Log.Debug("admin chat unknown, notification not pushed", logger.Int64("notification_id", n.ID))
		return nil
	}
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(menu.Data("✔️ Mark read", btnRead.Unique, strconv.FormatInt(n.ID, 10))))
	_, err := b.Bot.Send(&tele.User{ID: b.Cfg.AdminID}, formatNotification(n), menu, tele.ModeHTML)
	return err
}

func (b *Bot) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// reply turns a service error into a message the operator can act on.
func (b *Bot) reply(c tele.Context, err error) error {
	text, known := userError(err)
	if !known {
		b.Log.Error("bot command failed", logger.String("text", c.Text()), logger.Error(err))
		text = messages["failure"]
	}
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}

func (b *Bot) sendLines(c tele.Context, lines []string) error {
	for _, chunk := range chunkLines(lines, 3500) {
		if err := c.Send(chunk, tele.ModeHTML); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) logAction(action string, id interface{}) {
	b.Log.Info("admin bot action", logger.String("action", action), logger.String("id", fmt.Sprint(id)))
}
