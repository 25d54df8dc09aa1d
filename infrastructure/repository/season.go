package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/sysantonio/api-boukii-sub001/infrastructure/database/postgres"
	"github.com/sysantonio/api-boukii-sub001/internal/domain"
)

const seasonsTable = "seasons s"

type SeasonRepository interface {
	// GetActiveSeason returns the tenant's season covering the given date,
	// or nil when none does. When several seasons overlap the date, the most
	// recently started one wins.
	GetActiveSeason(ctx context.Context, schoolID int64, at time.Time) (*domain.Season, error)
	// GetByID returns the tenant's season with the given id, or nil.
	GetByID(ctx context.Context, schoolID, seasonID int64) (*domain.Season, error)
}

type seasonRepository struct {
	conn postgres.Conn
}

func NewSeasonRepository(conn postgres.Conn) SeasonRepository {
	return &seasonRepository{
		conn: conn,
	}
}

func (r *seasonRepository) GetActiveSeason(ctx context.Context, schoolID int64, at time.Time) (*domain.Season, error) {
	day := at.Format(time.DateOnly)

	query, args, err := squirrel.
		Select("s.id, s.school_id, s.name, s.start_date, s.end_date").
		From(seasonsTable).
		Where(squirrel.Eq{"s.school_id": schoolID}).
		Where(squirrel.LtOrEq{"s.start_date": day}).
		Where(squirrel.GtOrEq{"s.end_date": day}).
		OrderBy("s.start_date DESC", "s.id DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building active season query")
	}

	return r.scanSeason(r.conn.QueryRowContext(ctx, query, args...))
}

func (r *seasonRepository) GetByID(ctx context.Context, schoolID, seasonID int64) (*domain.Season, error) {
	query, args, err := squirrel.
		Select("s.id, s.school_id, s.name, s.start_date, s.end_date").
		From(seasonsTable).
		Where(squirrel.Eq{"s.id": seasonID, "s.school_id": schoolID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building season query")
	}

	return r.scanSeason(r.conn.QueryRowContext(ctx, query, args...))
}

func (r *seasonRepository) scanSeason(row *sql.Row) (*domain.Season, error) {
	season := &domain.Season{}
	err := row.Scan(
		&season.ID,
		&season.SchoolID,
		&season.Name,
		&season.StartDate,
		&season.EndDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "scanning season")
	}

	return season, nil
}
