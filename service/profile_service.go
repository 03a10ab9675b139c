package service

import (
	"database/sql"
	"errors"
	"go-events-api/common"
	"go-events-api/logger"
	"go-events-api/model"
	"go-events-api/repository"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// UserEventsQuery filters a user's events by their role in them and by time.
type UserEventsQuery struct {
	Role  string // "host", "attending" or "all"
	Time  string // "past", "future" or "all"
	Page  int
	Limit int
}

// MeResponse is the full profile returned by /auth/me, including the
// caller's email and event involvement.
type MeResponse struct {
	model.Profile
	Email           string         `json:"email"`
	HostedEvents    []*model.Event `json:"hosted_events"`
	AttendingEvents []*model.Event `json:"attending_events"`
}

// ProfileService serves public profiles and the caller's own profile.
type ProfileService struct {
	userRepo  repository.IUserRepository
	eventRepo repository.IEventRepository
}

func NewProfileService(userRepo repository.IUserRepository, eventRepo repository.IEventRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, eventRepo: eventRepo}
}

// ListProfiles returns one page of profiles, newest first.
func (s *ProfileService) ListProfiles(page, limit int) (*common.Page, error) {
	pagination := common.NormalizePagination(page, limit)

	total, err := s.userRepo.CountUsers()
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListUsers(pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, err
	}

	profiles := make([]model.Profile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}

	return &common.Page{
		Items: profiles,
		Meta:  common.BuildPaginationMeta(pagination, total),
	}, nil
}

func (s *ProfileService) GetProfile(id string) (*model.Profile, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// UpdateMyProfile applies a partial update to the caller's own profile.
func (s *ProfileService) UpdateMyProfile(userID string, req model.UpdateProfileRequest) (*model.Profile, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.Description != nil {
		user.Description = *req.Description
	}

	if err := s.userRepo.UpdateProfile(user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", userID).Info("Profile updated")
	profile := user.Profile()
	return &profile, nil
}

// GetUserEvents lists the events a user hosts or attends, filtered by time.
// Past listings run newest first, everything else soonest first.
func (s *ProfileService) GetUserEvents(userID string, q UserEventsQuery) (*common.Page, error) {
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	pagination := common.NormalizePagination(q.Page, q.Limit)

	filter := repository.EventFilter{
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}

	switch q.Role {
	case "host":
		filter.HostID = userID
	case "attending":
		filter.AttendeeID = userID
	default:
		filter.InvolvedID = userID
	}

	now := time.Now()
	switch q.Time {
	case "past":
		filter.DateTo = &now
		filter.OrderDesc = true
	case "future":
		filter.DateFrom = &now
	}

	events, total, err := s.eventRepo.ListEvents(filter)
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

// GetMe assembles the caller's full profile with hosted and attending
// events.
func (s *ProfileService) GetMe(userID string) (*MeResponse, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	hosted, _, err := s.eventRepo.ListEvents(repository.EventFilter{
		HostID: userID,
		Limit:  common.MaxLimit,
	})
	if err != nil {
		return nil, err
	}

	attending, _, err := s.eventRepo.ListEvents(repository.EventFilter{
		AttendeeID: userID,
		Limit:      common.MaxLimit,
	})
	if err != nil {
		return nil, err
	}

	if hosted == nil {
		hosted = []*model.Event{}
	}
	if attending == nil {
		attending = []*model.Event{}
	}

	return &MeResponse{
		Profile:         user.Profile(),
		Email:           user.Email,
		HostedEvents:    hosted,
		AttendingEvents: attending,
	}, nil
}
