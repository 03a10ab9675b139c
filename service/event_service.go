package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-events-api/common"
	"go-events-api/logger"
	"go-events-api/model"
	"go-events-api/repository"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotEventHost  = errors.New("only the event host may perform this action")
	ErrInvalidDate   = errors.New("date must be an RFC 3339 timestamp")
)

const eventCacheTTL = 10 * time.Minute

// EventListQuery describes a filtered, paginated event listing.
type EventListQuery struct {
	Query     string // "all", "going" or "hosting"
	StartDate string // RFC 3339 lower bound, ignored when malformed
	Page      int
	Limit     int
	UserID    string // empty for anonymous callers
}

// EventService implements event CRUD, attendance and the cancel toggle.
// Event detail reads go through a cache-aside layer when a cache client is
// configured.
type EventService struct {
	repo  repository.IEventRepository
	cache ICacheClient
}

func NewEventService(repo repository.IEventRepository, cache ICacheClient) *EventService {
	return &EventService{repo: repo, cache: cache}
}

func eventCacheKey(id string) string {
	return fmt.Sprintf("event:%s", id)
}

// CreateEvent creates an event hosted by hostID; the host is enrolled as the
// first attendee.
func (s *EventService) CreateEvent(hostID string, req model.CreateEventRequest) (*model.Event, error) {
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	event := &model.Event{
		ID:          uuid.NewString(),
		HostID:      hostID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
		City:        req.City,
		Venue:       req.Venue,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := s.repo.CreateEvent(event); err != nil {
		return nil, err
	}
	return s.GetEvent(event.ID)
}

// ListEvents returns one page of events. The "going" and "hosting" filters
// need an identity; without one they yield an empty page rather than an
// error.
func (s *EventService) ListEvents(q EventListQuery) (*common.Page, error) {
	pagination := common.NormalizePagination(q.Page, q.Limit)

	filter := repository.EventFilter{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}

	switch q.Query {
	case "hosting":
		if q.UserID == "" {
			return emptyPage(pagination), nil
		}
		filter.HostID = q.UserID
	case "going":
		if q.UserID == "" {
			return emptyPage(pagination), nil
		}
		filter.AttendeeID = q.UserID
	}

	if q.StartDate != "" {
		if parsed, err := time.Parse(time.RFC3339, q.StartDate); err == nil {
			filter.DateFrom = &parsed
		}
	}

	events, total, err := s.repo.ListEvents(filter)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*model.Event{}
	}

	return &common.Page{
		Items: events,
		Meta:  common.BuildPaginationMeta(pagination, total),
	}, nil
}

func emptyPage(p common.Pagination) *common.Page {
	return &common.Page{
		Items: []*model.Event{},
		Meta:  common.BuildPaginationMeta(p, 0),
	}
}

// GetEvent returns the event with host and attendees, via cache when
// available.
func (s *EventService) GetEvent(id string) (*model.Event, error) {
	ctx := context.Background()
	cacheKey := eventCacheKey(id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var event model.Event
			if err := json.Unmarshal([]byte(cached), &event); err == nil {
				return &event, nil
			}
		}
	}

	event, err := s.repo.GetEventByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(event); err == nil {
			s.cache.Set(ctx, cacheKey, data, eventCacheTTL)
		}
	}

	return event, nil
}

func (s *EventService) invalidate(id string) {
	if s.cache != nil {
		s.cache.Del(context.Background(), eventCacheKey(id))
	}
}

// UpdateEvent applies a partial update. Only the host may update an event.
func (s *EventService) UpdateEvent(id, callerID string, req model.UpdateEventRequest) (*model.Event, error) {
	event, err := s.loadForHost(id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Latitude != nil {
		event.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		event.Longitude = *req.Longitude
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		event.Date = date
	}

	if err := s.repo.UpdateEvent(event); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return s.GetEvent(id)
}

// ToggleCancelled flips the event's cancellation flag. Host only.
func (s *EventService) ToggleCancelled(id, callerID string) (*model.Event, error) {
	event, err := s.loadForHost(id, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetCancelled(id, !event.IsCancelled); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return s.GetEvent(id)
}

// DeleteEvent removes the event and, via cascade, its attendees and chat.
// Host only.
func (s *EventService) DeleteEvent(id, callerID string) error {
	if _, err := s.loadForHost(id, callerID); err != nil {
		return err
	}

	if err := s.repo.DeleteEvent(id); err != nil {
		return err
	}
	s.invalidate(id)
	logger.Log.WithField("event_id", id).Info("Event deleted")
	return nil
}

// Join enrolls the caller as an attendee. Joining twice is a no-op.
func (s *EventService) Join(id, userID string) (*model.Event, error) {
	if _, err := s.GetEvent(id); err != nil {
		return nil, err
	}

	if err := s.repo.AddAttendee(id, userID, false); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return s.GetEvent(id)
}

// Leave withdraws the caller's attendance.
func (s *EventService) Leave(id, userID string) (*model.Event, error) {
	if _, err := s.GetEvent(id); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveAttendee(id, userID); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return s.GetEvent(id)
}

func (s *EventService) loadForHost(id, callerID string) (*model.Event, error) {
	event, err := s.repo.GetEventByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.HostID != callerID {
		return nil, ErrNotEventHost
	}
	return event, nil
}
