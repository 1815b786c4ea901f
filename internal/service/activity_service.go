package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"smartpass/internal/model"
	"smartpass/internal/repository"
)

// EventActivityCreated is published for every recorded activity
const EventActivityCreated = "activity.created"

const unknownActor = "Unknown user"

// EventPublisher fans events out to live subscribers
type EventPublisher interface {
	Publish(event string, data interface{})
}

// ActivityRecorder appends activity entries as a side effect of mutations
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// ActivityEntry describes one mutation to record
type ActivityEntry struct {
	ActorID  string
	Action   string
	Target   string
	TargetID string
	Details  map[string]interface{}
}

type ActivityFilter struct {
	Search    string
	Action    string
	DateRange string
}

type ActivityResponse struct {
	ID        string                 `json:"id"`
	User      model.ActivityActor    `json:"user"`
	Action    string                 `json:"action"`
	Target    string                 `json:"target,omitempty"`
	TargetID  string                 `json:"targetId,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type ActivityService interface {
	ActivityRecorder
	ListActivity(ctx context.Context, filter ActivityFilter, page, limit int) ([]ActivityResponse, int64, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type activityService struct {
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
	publisher    EventPublisher
	now          func() time.Time
}

// NewActivityService creates a new ActivityService instance. publisher may be nil.
func NewActivityService(activityRepo repository.ActivityRepository, userRepo repository.UserRepository, publisher EventPublisher) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

// Record appends the entry and publishes it. The mutation that triggered it has
// already happened, so a failed write is logged rather than returned.
func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	activity := &model.Activity{
		UserID:    entry.ActorID,
		Action:    entry.Action,
		Target:    entry.Target,
		TargetID:  entry.TargetID,
		Details:   entry.Details,
		CreatedAt: s.now(),
	}
	if err := s.activityRepo.Log(ctx, activity); err != nil {
		log.Printf("activity: failed to record %q by %s: %v", entry.Action, entry.ActorID, err)
		return
	}

	if s.publisher != nil {
		actor := model.ActivityActor{ID: entry.ActorID, Name: unknownActor}
		if u, err := s.userRepo.GetByID(ctx, entry.ActorID); err == nil {
			actor = toActor(u)
		}
		s.publisher.Publish(EventActivityCreated, toActivityResponse(*activity, actor))
	}
}

// ListActivity returns paginated entries, newest first, with actors populated
func (s *activityService) ListActivity(ctx context.Context, filter ActivityFilter, page, limit int) ([]ActivityResponse, int64, error) {
	var f repository.Filter

	if term := strings.TrimSpace(filter.Search); term != "" {
		ids, err := s.userRepo.ListIDs(ctx, repository.Filter{repository.Search(term, "first_name", "last_name")})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve actors: %w", err)
		}
		f = append(f, repository.In("user_id", ids))
	}
	if filter.Action != "" {
		f = append(f, repository.Eq("action", filter.Action))
	}
	start, err := dateRangeStart(filter.DateRange, s.now())
	if err != nil {
		return nil, 0, err
	}
	if start != nil {
		f = append(f, repository.Since("created_at", *start))
	}

	logs, total, err := s.activityRepo.List(ctx, f, page, limit)
	if err != nil {
		return nil, 0, storeError(err, "activity")
	}

	res := make([]ActivityResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, toActivityResponse(l, actorOf(l)))
	}
	return res, total, nil
}

var csvHeader = []string{"User", "Action", "Target", "Date"}

// ExportCSV writes the whole log as CSV, newest first
func (s *activityService) ExportCSV(ctx context.Context, w io.Writer) error {
	logs, err := s.activityRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load activity log: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range logs {
		record := []string{
			actorOf(l).Name,
			l.Action,
			l.Target,
			l.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func actorOf(a model.Activity) model.ActivityActor {
	if a.User == nil {
		return model.ActivityActor{ID: a.UserID, Name: unknownActor}
	}
	return toActor(a.User)
}

func toActor(u *model.User) model.ActivityActor {
	name := u.Name()
	if name == "" {
		name = u.Email
	}
	return model.ActivityActor{ID: u.ID, Name: name, Photo: u.Photo}
}

func toActivityResponse(a model.Activity, actor model.ActivityActor) ActivityResponse {
	return ActivityResponse{
		ID:        a.ID,
		User:      actor,
		Action:    a.Action,
		Target:    a.Target,
		TargetID:  a.TargetID,
		Details:   a.Details,
		CreatedAt: a.CreatedAt,
	}
}
