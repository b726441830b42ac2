package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideadmin/pkg/logger"
	"rideadmin/pkg/models"
	"rideadmin/storage"
)

const notificationColumns = `id, type, title, message, recipient, customer_name, booking_id, is_read, created_at`

type notificationRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewNotificationRepo(db *pgxpool.Pool, log logger.ILogger) storage.INotificationStorage {
	return &notificationRepo{db: db, log: log}
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var (
		n         models.Notification
		noteType  string
		bookingID *int64
	)
	err := row.Scan(
		&n.ID, &noteType, &n.Title, &n.Message, &n.Recipient, &n.CustomerName, &bookingID, &n.Read, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Type = models.NotificationType(noteType)
	if bookingID != nil {
		n.BookingID = *bookingID
	}
	return &n, nil
}

func bookingArg(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func (r *notificationRepo) List(ctx context.Context) ([]*models.Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT `+notificationColumns+` FROM notifications ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notificationRepo) Find(ctx context.Context, id int64) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (r *notificationRepo) Add(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (type, title, message, recipient, customer_name, booking_id, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		string(n.Type),
		n.Title,
		n.Message,
		n.Recipient,
		n.CustomerName,
		bookingArg(n.BookingID),
		n.Read,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		r.log.Error("failed to create notification", logger.String("type", string(n.Type)), logger.Error(err))
		return nil, err
	}
	return n, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 RETURNING ` + notificationColumns
	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context) (int, error) {
	res, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE NOT is_read`)
	if err != nil {
		return 0, err
	}
	return int(res.RowsAffected()), nil
}
