package bot

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/models"
	"rideadmin/service"
	"rideadmin/storage"

	tele "gopkg.in/telebot.v3"
)

type tripArgs struct {
	ID       int64
	Distance float64
	Duration float64
	Mode     fare.Mode
}

func isAdmin(u *tele.User, adminID int64, adminUsername string) bool {
	if u == nil {
		return false
	}
	if adminID != 0 && u.ID == adminID {
		return true
	}
	name := strings.TrimPrefix(adminUsername, "@")
	return name != "" && strings.EqualFold(u.Username, name)
}

// parseQuoteArgs reads "<categoryID> <miles> [hours] [mode]".
func parseQuoteArgs(args []string) (tripArgs, error) {
	if len(args) < 2 || len(args) > 4 {
		return tripArgs{}, errors.New("expected 2 to 4 arguments")
	}
	id, err := parseID(args[0])
	if err != nil {
		return tripArgs{}, err
	}
	miles, err := parseNumber("miles", args[1])
	if err != nil {
		return tripArgs{}, err
	}
	out := tripArgs{ID: id, Distance: miles, Mode: fare.ModeDistance}
	if len(args) >= 3 {
		if out.Duration, err = parseNumber("hours", args[2]); err != nil {
			return tripArgs{}, err
		}
	}
	if len(args) == 4 {
		if out.Mode, err = fare.ParseMode(strings.ToLower(args[3])); err != nil {
			return tripArgs{}, err
		}
	}
	return out, nil
}

// parseCityQuoteArgs reads "<cityID> <km> <minutes>".
func parseCityQuoteArgs(args []string) (tripArgs, error) {
	if len(args) != 3 {
		return tripArgs{}, errors.New("expected 3 arguments")
	}
	id, err := parseID(args[0])
	if err != nil {
		return tripArgs{}, err
	}
	km, err := parseNumber("km", args[1])
	if err != nil {
		return tripArgs{}, err
	}
	minutes, err := parseNumber("minutes", args[2])
	if err != nil {
		return tripArgs{}, err
	}
	return tripArgs{ID: id, Distance: km, Duration: minutes}, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", s)
	}
	return id, nil
}

// parseNumber only checks the syntax; the calculator rejects negatives.
func parseNumber(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return v, nil
}

// userError reports whether err is one the operator caused, with its text.
func userError(err error) (string, bool) {
	switch {
	case models.IsInvalidInput(err):
		return "⚠️ " + err.Error(), true
	case models.IsInvalidState(err):
		return "⛔ " + err.Error(), true
	case errors.Is(err, storage.ErrNotFound):
		return "🔍 Not found.", true
	}
	return "", false
}

func activeIcon(active bool) string {
	if active {
		return "🟢"
	}
	return "🔴"
}

func formatCity(c *models.City) string {
	return fmt.Sprintf("%s #%d <b>%s</b>, %s\n   base %s · %s/km · %s/min",
		activeIcon(c.IsActive), c.ID, html.EscapeString(c.Name), html.EscapeString(c.Country),
		c.BaseFare, c.PerKmFare, c.PerMinuteFare)
}

func formatCategory(v *models.VehicleCategory) string {
	vehicles := "no vehicles"
	if len(v.Vehicles) > 0 {
		vehicles = strings.Join(v.Vehicles, ", ")
	}
	return fmt.Sprintf("%s #%d <b>%s</b>\n   first %.0f mi %s · %s/mi · %s/h\n   %s",
		activeIcon(v.IsActive), v.ID, html.EscapeString(v.Name),
		models.FlatMiles, v.BaseFare, v.PerMile, v.HourlyRate, html.EscapeString(vehicles))
}

func formatBooking(b *models.Booking) string {
	return fmt.Sprintf("📦 <b>#%d</b> %s (%s)\n📍 %s ➡️ %s\n📅 %s %s · %s\n💰 %s · %s",
		b.ID, html.EscapeString(b.CustomerName), html.EscapeString(b.CustomerPhone),
		html.EscapeString(b.PickupLocation), html.EscapeString(b.DropLocation),
		b.BookingDate, b.BookingTime, html.EscapeString(b.VehicleCategory),
		b.Fare, b.Status)
}

func refundDisplay(tx *models.Transaction) string {
	if tx.RefundAmount == nil {
		return "-"
	}
	return tx.RefundAmount.String()
}

func formatRefund(tx *models.Transaction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💸 <b>%s</b> · booking %s\n", tx.ID, html.EscapeString(tx.BookingID))
	fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(tx.CustomerName))
	fmt.Fprintf(&sb, "🚗 ride %s %s\n", tx.RideDate, tx.RideTime)
	fmt.Fprintf(&sb, "💰 paid %s · refund %s", tx.Amount, refundDisplay(tx))
	if tx.RefundReason != "" {
		fmt.Fprintf(&sb, "\n📝 %s", html.EscapeString(tx.RefundReason))
	}
	return sb.String()
}

func formatOverview(o *service.Overview) string {
	return fmt.Sprintf("<b>📊 DASHBOARD</b>\n\n"+
		"Gross payments: %s\nRefunded: %s\nNet revenue: %s\nPending refunds: %d\n\n"+
		"Bookings: %d (pending %d, confirmed %d, completed %d, cancelled %d)\n"+
		"Cities: %d/%d active\nVehicle categories: %d/%d active\n"+
		"Customers: %d/%d active\nUnread notifications: %d",
		o.GrossPayments, o.RefundedTotal, o.NetRevenue, o.PendingRefunds,
		o.TotalBookings,
		o.BookingsByStatus[models.BookingPending], o.BookingsByStatus[models.BookingConfirmed],
		o.BookingsByStatus[models.BookingCompleted], o.BookingsByStatus[models.BookingCancelled],
		o.ActiveCities, o.TotalCities, o.ActiveCategories, o.TotalCategories,
		o.ActiveCustomers, o.TotalCustomers, o.UnreadNotices)
}

func customerIcon(s models.CustomerStatus) string {
	switch s {
	case models.CustomerActive:
		return "🟢"
	case models.CustomerSuspended:
		return "🟡"
	}
	return "⛔"
}

func formatCustomer(c *models.Customer) string {
	return fmt.Sprintf("%s #%d <b>%s</b> · %s\n📧 %s · 📞 %s\n🚗 %d rides · %s spent · since %s",
		customerIcon(c.Status), c.ID, html.EscapeString(c.Name), c.Status,
		html.EscapeString(c.Email), html.EscapeString(c.Phone),
		c.TotalRides, c.TotalSpent, c.JoinDate)
}

func formatNotification(n *models.Notification) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔔 <b>%s</b>\n%s", html.EscapeString(n.Title), html.EscapeString(n.Message))
	if n.BookingID != 0 {
		fmt.Fprintf(&sb, "\n📦 booking #%d", n.BookingID)
	}
	if n.Recipient != models.RecipientAdmin {
		fmt.Fprintf(&sb, "\n📣 to %s", n.Recipient)
	}
	return sb.String()
}

// parseAnnounce reads "<recipient> <title> | <message>".
func parseAnnounce(payload string) (service.NotificationInput, error) {
	recipient, rest, ok := strings.Cut(strings.TrimSpace(payload), " ")
	if !ok {
		return service.NotificationInput{}, errors.New("expected a recipient, a title and a message")
	}
	title, message, ok := strings.Cut(rest, "|")
	if !ok {
		return service.NotificationInput{}, errors.New("separate the title and the message with |")
	}
	return service.NotificationInput{
		Type:      models.NotificationAnnouncement,
		Recipient: recipient,
		Title:     strings.TrimSpace(title),
		Message:   strings.TrimSpace(message),
	}, nil
}

func formatVehicleQuote(q *service.VehicleQuote) string {
	s := fmt.Sprintf("🚘 <b>%s</b> · %s\n%.2f mi · %.2f h\n💰 <b>%s</b>",
		html.EscapeString(q.Category), q.Mode, q.DistanceMiles, q.DurationHours, q.Display)
	if !q.Active {
		s += "\n🔴 category is inactive"
	}
	return s
}

func formatCityQuote(q *service.CityQuote) string {
	s := fmt.Sprintf("🏙 <b>%s</b>\n%.2f km · %.0f min\n💰 <b>%s</b>",
		html.EscapeString(q.City), q.DistanceKm, q.DurationMinutes, q.Display)
	if !q.Active {
		s += "\n🔴 city is inactive"
	}
	return s
}

// chunkLines joins lines into messages no longer than limit bytes.
func chunkLines(lines []string, limit int) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, l := range lines {
		if cur.Len() > 0 && cur.Len()+len(l)+1 > limit {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(l)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
