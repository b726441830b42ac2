package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/models"
	"rideadmin/service"
)

func (b *Bot) handleCities(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	cities, err := b.Svc.City().List(ctx, service.CityFilter{})
	if err != nil {
		return b.reply(c, err)
	}
	if len(cities) == 0 {
		return c.Send(messages["no_cities"])
	}
	lines := []string{"<b>🏙 Cities</b>"}
	for _, city := range cities {
		lines = append(lines, formatCity(city))
	}
	return b.sendLines(c, lines)
}

func (b *Bot) handleCategories(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	cats, err := b.Svc.Vehicle().List(ctx, service.VehicleFilter{})
	if err != nil {
		return b.reply(c, err)
	}
	if len(cats) == 0 {
		return c.Send(messages["no_cats"])
	}
	lines := []string{"<b>🚘 Vehicle categories</b>"}
	for _, cat := range cats {
		lines = append(lines, formatCategory(cat))
	}
	return b.sendLines(c, lines)
}

// handleBookings lists open bookings with confirm/cancel buttons.
func (b *Bot) handleBookings(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	bookings, err := b.Svc.Booking().List(ctx, service.BookingFilter{})
	if err != nil {
		return b.reply(c, err)
	}
	open := 0
	for _, bk := range bookings {
		if bk.Status.Terminal() {
			continue
		}
		open++
		id := strconv.FormatInt(bk.ID, 10)
		menu := &tele.ReplyMarkup{}
		row := []tele.Btn{menu.Data("❌ Cancel", btnCancel.Unique, id)}
		if bk.Status == models.BookingPending {
			row = append([]tele.Btn{menu.Data("✅ Confirm", btnConfirm.Unique, id)}, row...)
		}
		menu.Inline(menu.Row(row...))
		if err := c.Send(formatBooking(bk), menu, tele.ModeHTML); err != nil {
			return err
		}
	}
	if open == 0 {
		return c.Send(messages["no_bookings"])
	}
	return nil
}

func (b *Bot) handlePendingRefunds(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	refunds, err := b.Svc.Transaction().List(ctx, service.TransactionFilter{
		Status: models.TransactionPending,
		Type:   models.TransactionRefund,
	})
	if err != nil {
		return b.reply(c, err)
	}
	if len(refunds) == 0 {
		return c.Send(messages["no_refunds"])
	}
	for _, tx := range refunds {
		menu := &tele.ReplyMarkup{}
		menu.Inline(menu.Row(
			menu.Data("✅ Approve", btnApprove.Unique, tx.ID),
			menu.Data("❌ Reject", btnReject.Unique, tx.ID),
		))
		if err := c.Send(formatRefund(tx), menu, tele.ModeHTML); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleDashboard(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	o, err := b.Svc.Dashboard().Overview(ctx)
	if err != nil {
		return b.reply(c, err)
	}
	return c.Send(formatOverview(o), tele.ModeHTML)
}

func (b *Bot) handleDecision(d fare.Decision) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, cancel := b.ctx()
		defer cancel()

		id := c.Data()
		tx, err := b.Svc.Transaction().Decide(ctx, id, d)
		if err != nil {
			return b.reply(c, err)
		}
		b.logAction(string(d), id)

		text := fmt.Sprintf(messages["rejected"], tx.ID)
		if d == fare.DecisionApprove {
			text = fmt.Sprintf(messages["approved"], tx.ID, refundDisplay(tx))
		}
		if err := c.Edit(text); err != nil {
			b.Log.Warning("failed to edit refund message")
		}
		return c.Respond()
	}
}

func (b *Bot) handleBookingConfirm(c tele.Context) error {
	return b.moveBooking(c, "confirm", messages["confirmed"])
}

func (b *Bot) handleBookingCancel(c tele.Context) error {
	return b.moveBooking(c, "cancel", messages["cancelled"])
}

func (b *Bot) moveBooking(c tele.Context, action, done string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	id, err := strconv.ParseInt(c.Data(), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "bad booking id"})
	}
	if action == "confirm" {
		_, err = b.Svc.Booking().Confirm(ctx, id)
	} else {
		_, err = b.Svc.Booking().Cancel(ctx, id)
	}
	if err != nil {
		return b.reply(c, err)
	}
	b.logAction("booking_"+action, id)
	if err := c.Edit(fmt.Sprintf(done, id)); err != nil {
		b.Log.Warning("failed to edit booking message")
	}
	return c.Respond()
}

// /quote <categoryID> <miles> [hours] [mode]
func (b *Bot) handleQuote(c tele.Context) error {
	args, err := parseQuoteArgs(c.Args())
	if err != nil {
		return c.Send(messages["quote_usage"] + "\n" + err.Error())
	}
	ctx, cancel := b.ctx()
	defer cancel()

	q, err := b.Svc.Vehicle().QuoteFare(ctx, args.ID, args.Distance, args.Duration, args.Mode)
	if err != nil {
		return b.reply(c, err)
	}
	return c.Send(formatVehicleQuote(q), tele.ModeHTML)
}

// /cityquote <cityID> <km> <minutes>
func (b *Bot) handleCityQuote(c tele.Context) error {
	args, err := parseCityQuoteArgs(c.Args())
	if err != nil {
		return c.Send(messages["city_usage"] + "\n" + err.Error())
	}
	ctx, cancel := b.ctx()
	defer cancel()

	q, err := b.Svc.City().QuoteFare(ctx, args.ID, args.Distance, args.Duration)
	if err != nil {
		return b.reply(c, err)
	}
	return c.Send(formatCityQuote(q), tele.ModeHTML)
}

// handleCustomers lists the registry with suspend/activate buttons.
func (b *Bot) handleCustomers(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	customers, err := b.Svc.Customer().List(ctx, service.CustomerFilter{})
	if err != nil {
		return b.reply(c, err)
	}
	if len(customers) == 0 {
		return c.Send(messages["no_customers"])
	}
	for _, cu := range customers {
		id := strconv.FormatInt(cu.ID, 10)
		menu := &tele.ReplyMarkup{}
		if cu.Status == models.CustomerActive {
			menu.Inline(menu.Row(menu.Data("⏸ Suspend", btnSuspend.Unique, id)))
		} else {
			menu.Inline(menu.Row(menu.Data("▶️ Activate", btnResume.Unique, id)))
		}
		if err := c.Send(formatCustomer(cu), menu, tele.ModeHTML); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleCustomerSuspend(c tele.Context) error {
	return b.moveCustomer(c, "suspend", messages["suspended"])
}

func (b *Bot) handleCustomerActivate(c tele.Context) error {
	return b.moveCustomer(c, "activate", messages["activated"])
}

func (b *Bot) moveCustomer(c tele.Context, action, done string) error {
	ctx, cancel := b.ctx()
	defer cancel()

	id, err := strconv.ParseInt(c.Data(), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "bad customer id"})
	}
	if action == "suspend" {
		_, err = b.Svc.Customer().Suspend(ctx, id)
	} else {
		_, err = b.Svc.Customer().Activate(ctx, id)
	}
	if err != nil {
		return b.reply(c, err)
	}
	b.logAction("customer_"+action, id)
	if err := c.Edit(fmt.Sprintf(done, id)); err != nil {
		b.Log.Warning("failed to edit customer message")
	}
	return c.Respond()
}

func (b *Bot) handleNotifications(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	notes, err := b.Svc.Notification().List(ctx, service.NotificationFilter{UnreadOnly: true})
	if err != nil {
		return b.reply(c, err)
	}
	if len(notes) == 0 {
		return c.Send(messages["no_notices"])
	}
	for _, n := range notes {
		menu := &tele.ReplyMarkup{}
		menu.Inline(menu.Row(menu.Data("✔️ Mark read", btnRead.Unique, strconv.FormatInt(n.ID, 10))))
		if err := c.Send(formatNotification(n), menu, tele.ModeHTML); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleMarkRead(c tele.Context) error {
	ctx, cancel := b.ctx()
	defer cancel()

	id, err := strconv.ParseInt(c.Data(), 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "bad notification id"})
	}
	if _, err := b.Svc.Notification().MarkRead(ctx, id); err != nil {
		return b.reply(c, err)
	}
	if err := c.Edit(messages["read"]); err != nil {
		b.Log.Warning("failed to edit notification message")
	}
	return c.Respond()
}

// /announce <all_users|all_drivers> <title> | <message>
func (b *Bot) handleAnnounce(c tele.Context) error {
	in, err := parseAnnounce(c.Message().Payload)
	if err != nil {
		return c.Send(messages["announce_usage"] + "\n" + err.Error())
	}
	ctx, cancel := b.ctx()
	defer cancel()

	n, err := b.Svc.Notification().Send(ctx, in)
	if err != nil {
		return b.reply(c, err)
	}
	b.logAction("announce", n.ID)
	return c.Send(fmt.Sprintf(messages["announced"], n.ID, n.Recipient))
}
