package repository

import (
	"database/sql"
	"fmt"
	"go-events-api/logger"
	"go-events-api/model"
	"strings"
	"time"

	"github.com/lib/pq"
)

// EventFilter narrows an event listing. Zero values mean "no constraint".
type EventFilter struct {
	HostID     string     // only events hosted by this user
	AttendeeID string     // only events this user attends
	InvolvedID string     // hosted by or attended by this user
	DateFrom   *time.Time // date >= DateFrom
	DateTo     *time.Time // date < DateTo
	OrderDesc  bool
	Limit      int
	Offset     int
}

// IEventRepository defines the contract for event database operations.
type IEventRepository interface {
	CreateEvent(event *model.Event) error
	GetEventByID(id string) (*model.Event, error)
	ListEvents(filter EventFilter) ([]*model.Event, int64, error)
	UpdateEvent(event *model.Event) error
	SetCancelled(id string, cancelled bool) error
	DeleteEvent(id string) error
	AddAttendee(eventID, userID string, isHost bool) error
	RemoveAttendee(eventID, userID string) error
}

type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{DB: db}
}

const eventColumns = `e.id, e.host_id, e.title, e.description, e.category, e.date, e.city, e.venue, e.latitude, e.longitude, e.is_cancelled, e.created_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*model.Event, error) {
	ev := &model.Event{}
	err := row.Scan(&ev.ID, &ev.HostID, &ev.Title, &ev.Description, &ev.Category,
		&ev.Date, &ev.City, &ev.Venue, &ev.Latitude, &ev.Longitude, &ev.IsCancelled, &ev.CreatedAt)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// CreateEvent inserts the event and enrolls the host as its first attendee
// inside a single transaction.
func (r *EventRepository) CreateEvent(event *model.Event) error {
	log := logger.Log.WithField("host_id", event.HostID)
	log.Info("Executing query to create a new event")

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO events (id, host_id, title, description, category, date, city, venue, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at`
	err = tx.QueryRow(query, event.ID, event.HostID, event.Title, event.Description, event.Category,
		event.Date, event.City, event.Venue, event.Latitude, event.Longitude).Scan(&event.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create event query")
		return err
	}

	_, err = tx.Exec(`INSERT INTO event_attendees (event_id, user_id, is_host) VALUES ($1, $2, TRUE)`,
		event.ID, event.HostID)
	if err != nil {
		log.WithError(err).Error("Failed to enroll host as attendee")
		return err
	}

	return tx.Commit()
}

// GetEventByID returns the event with its host summary and attendee list, or
// sql.ErrNoRows when absent.
func (r *EventRepository) GetEventByID(id string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`
	event, err := scanEvent(r.DB.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachDetails([]*model.Event{event}); err != nil {
		return nil, err
	}
	return event, nil
}

// ListEvents returns one page of events matching the filter, with host and
// attendee details attached, plus the total match count.
func (r *EventRepository) ListEvents(filter EventFilter) ([]*model.Event, int64, error) {
	where, args := buildEventWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM events e` + where
	if err := r.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		logger.Log.WithError(err).Error("Failed to execute count events query")
		return nil, 0, err
	}

	order := "ASC"
	if filter.OrderDesc {
		order = "DESC"
	}
	listQuery := fmt.Sprintf(`SELECT %s FROM events e%s ORDER BY e.date %s LIMIT $%d OFFSET $%d`,
		eventColumns, where, order, len(args)+1, len(args)+2)
	rows, err := r.DB.Query(listQuery, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute list events query")
		return nil, 0, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to scan event row")
			return nil, 0, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachDetails(events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func buildEventWhere(filter EventFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.HostID != "" {
		args = append(args, filter.HostID)
		conds = append(conds, fmt.Sprintf("e.host_id = $%d", len(args)))
	}
	if filter.AttendeeID != "" {
		args = append(args, filter.AttendeeID)
		conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM event_attendees a WHERE a.event_id = e.id AND a.user_id = $%d)", len(args)))
	}
	if filter.InvolvedID != "" {
		args = append(args, filter.InvolvedID)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(e.host_id = $%d OR EXISTS (SELECT 1 FROM event_attendees a WHERE a.event_id = e.id AND a.user_id = $%d))", n, n))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("e.date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("e.date < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// attachDetails loads host summaries and attendees for a batch of events with
// two queries instead of one pair per event.
func (r *EventRepository) attachDetails(events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]string, 0, len(events))
	byID := make(map[string]*model.Event, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
		byID[ev.ID] = ev
		ev.Attendees = []model.EventAttendee{}
	}

	hostQuery := `SELECT e.id, u.id, u.display_name, u.photo_url
		FROM events e JOIN users u ON u.id = e.host_id WHERE e.id = ANY($1)`
	rows, err := r.DB.Query(hostQuery, pq.Array(ids))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load event hosts")
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID string
		var host model.UserSummary
		if err := rows.Scan(&eventID, &host.ID, &host.DisplayName, &host.PhotoURL); err != nil {
			return err
		}
		if ev, ok := byID[eventID]; ok {
			h := host
			ev.Host = &h
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	attendeeQuery := `SELECT a.event_id, a.user_id, a.is_host, a.created_at, u.id, u.display_name, u.photo_url
		FROM event_attendees a JOIN users u ON u.id = a.user_id
		WHERE a.event_id = ANY($1) ORDER BY a.created_at ASC`
	arows, err := r.DB.Query(attendeeQuery, pq.Array(ids))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load event attendees")
		return err
	}
	defer arows.Close()
	for arows.Next() {
		var att model.EventAttendee
		if err := arows.Scan(&att.EventID, &att.UserID, &att.IsHost, &att.CreatedAt,
			&att.User.ID, &att.User.DisplayName, &att.User.PhotoURL); err != nil {
			return err
		}
		if ev, ok := byID[att.EventID]; ok {
			ev.Attendees = append(ev.Attendees, att)
		}
	}
	return arows.Err()
}

func (r *EventRepository) UpdateEvent(event *model.Event) error {
	log := logger.Log.WithField("event_id", event.ID)
	log.Info("Executing query to update event")

	query := `UPDATE events SET title = $2, description = $3, category = $4, date = $5,
		city = $6, venue = $7, latitude = $8, longitude = $9 WHERE id = $1`
	_, err := r.DB.Exec(query, event.ID, event.Title, event.Description, event.Category,
		event.Date, event.City, event.Venue, event.Latitude, event.Longitude)
	if err != nil {
		log.WithError(err).Error("Failed to execute update event query")
		return err
	}
	return nil
}

func (r *EventRepository) SetCancelled(id string, cancelled bool) error {
	log := logger.Log.WithField("event_id", id)
	log.Info("Executing query to toggle event cancellation")

	_, err := r.DB.Exec(`UPDATE events SET is_cancelled = $2 WHERE id = $1`, id, cancelled)
	if err != nil {
		log.WithError(err).Error("Failed to execute set cancelled query")
		return err
	}
	return nil
}

func (r *EventRepository) DeleteEvent(id string) error {
	log := logger.Log.WithField("event_id", id)
	log.Info("Executing query to delete event")

	// Attendees and chat messages cascade via foreign keys.
	_, err := r.DB.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete event query")
		return err
	}
	return nil
}

// AddAttendee is idempotent: joining an event twice is a no-op.
func (r *EventRepository) AddAttendee(eventID, userID string, isHost bool) error {
	log := logger.Log.WithFields(map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
	})
	log.Info("Executing query to add event attendee")

	query := `INSERT INTO event_attendees (event_id, user_id, is_host) VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING`
	_, err := r.DB.Exec(query, eventID, userID, isHost)
	if err != nil {
		log.WithError(err).Error("Failed to execute add attendee query")
		return err
	}
	return nil
}

func (r *EventRepository) RemoveAttendee(eventID, userID string) error {
	log := logger.Log.WithFields(map[string]interface{}{
		"event_id": eventID,
		"user_id":  userID,
	})
	log.Info("Executing query to remove event attendee")

	_, err := r.DB.Exec(`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute remove attendee query")
		return err
	}
	return nil
}
