package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/business-nexus/backend/internal/domain/apperror"
	"github.com/business-nexus/backend/internal/domain/models"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetMeetingsByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Meeting, error)

	// FindConfirmedOverlapping returns confirmed meetings that share at least
	// one of the given participants and overlap the half-open [start, end)
	// window.
	FindConfirmedOverlapping(ctx context.Context, participantIDs []uuid.UUID, start, end time.Time) ([]*models.Meeting, error)
}

type meetingRepo struct {
	db *sqlx.DB
}

func NewMeetingRepo(db *sqlx.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

const meetingColumns = "m.id, m.organizer_id, m.title, m.start_time, m.end_time, m.status, m.location, m.created_at, m.updated_at"

func (r *meetingRepo) Create(ctx context.Context, meeting *models.Meeting) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		"INSERT INTO meetings (id, organizer_id, title, start_time, end_time, status, location) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		meeting.ID,
		meeting.OrganizerID,
		meeting.Title,
		meeting.StartTime,
		meeting.EndTime,
		meeting.Status,
		meeting.Location,
	)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}

	for _, participantID := range meeting.Participants {
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO meeting_participants (meeting_id, user_id) VALUES ($1, $2)",
			meeting.ID,
			participantID,
		)
		if err != nil {
			return fmt.Errorf("insert meeting participant: %w", err)
		}
	}

	return tx.Commit()
}

func (r *meetingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	var meeting models.Meeting

	query := "SELECT " + meetingColumns + " FROM meetings m WHERE m.id = $1"

	err := r.db.GetContext(ctx, &meeting, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("meeting %s: %w", id, apperror.ErrNotFound)
		}
		return nil, err
	}

	if err = r.loadParticipants(ctx, &meeting); err != nil {
		return nil, err
	}

	return &meeting, nil
}

func (r *meetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// meeting_participants rows go away via ON DELETE CASCADE
	_, err := r.db.ExecContext(ctx, "DELETE FROM meetings WHERE id = $1", id)

	return err
}

func (r *meetingRepo) GetMeetingsByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Meeting, error) {
	var meetings []*models.Meeting

	query := `
		SELECT ` + meetingColumns + `
		FROM meetings m
		INNER JOIN meeting_participants mp ON m.id = mp.meeting_id
		WHERE mp.user_id = $1
		ORDER BY m.start_time
	`

	err := r.db.SelectContext(ctx, &meetings, query, userID)
	if err != nil {
		return nil, err
	}

	for _, meeting := range meetings {
		if err = r.loadParticipants(ctx, meeting); err != nil {
			return nil, err
		}
	}

	return meetings, nil
}

func (r *meetingRepo) FindConfirmedOverlapping(
	ctx context.Context,
	participantIDs []uuid.UUID,
	start, end time.Time,
) ([]*models.Meeting, error) {
	query, args, err := sqlx.In(
		`
		SELECT DISTINCT `+meetingColumns+`
		FROM meetings m
		INNER JOIN meeting_participants mp ON m.id = mp.meeting_id
		WHERE m.status = ?
		  AND mp.user_id IN (?)
		  AND m.start_time < ?
		  AND m.end_time > ?
		`,
		models.MeetingStatusConfirmed,
		participantIDs,
		end,
		start,
	)
	if err != nil {
		return nil, fmt.Errorf("build overlap query: %w", err)
	}

	var meetings []*models.Meeting

	err = r.db.SelectContext(ctx, &meetings, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return meetings, nil
}

func (r *meetingRepo) loadParticipants(ctx context.Context, meeting *models.Meeting) error {
	query := "SELECT user_id FROM meeting_participants WHERE meeting_id = $1"

	err := r.db.SelectContext(ctx, &meeting.Participants, query, meeting.ID)
	if err != nil {
		return fmt.Errorf("load meeting participants: %w", err)
	}

	return nil
}
