package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RewardRepository interface {
	Create(ctx context.Context, reward *domain.MilesReward) error
	GetByID(ctx context.Context, id domain.RewardID) (*domain.MilesReward, error)
	List(ctx context.Context, filter RewardFilter) ([]domain.MilesReward, error)
	Update(ctx context.Context, reward *domain.MilesReward) error
	Delete(ctx context.Context, id domain.RewardID) error
}

type PGRewardRepository struct {
	db *pgxpool.Pool
}

func NewRewardRepository(db *pgxpool.Pool) RewardRepository {
	return &PGRewardRepository{db: db}
}

func (r *PGRewardRepository) Create(ctx context.Context, reward *domain.MilesReward) error {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO miles_rewards (client_id, flight_id, reward_date)
		VALUES ($1, $2, $3) RETURNING id, created_at`,
		int64(reward.ClientID), int64(reward.FlightID), reward.Date).
		Scan(&id, &reward.CreatedAt)
	if err != nil {
		return translate(err, "reward")
	}
	reward.ID = domain.RewardID(id)
	return nil
}

func (r *PGRewardRepository) GetByID(ctx context.Context, id domain.RewardID) (*domain.MilesReward, error) {
	row := r.db.QueryRow(ctx, `SELECT id, client_id, flight_id, reward_date, created_at FROM miles_rewards WHERE id=$1`, int64(id))
	reward, err := scanReward(row)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("reward %d", id))
	}
	return reward, nil
}

func (r *PGRewardRepository) List(ctx context.Context, filter RewardFilter) ([]domain.MilesReward, error) {
	ds := goqu.Dialect(dialectPostgres).
		From("miles_rewards").
		Select("id", "client_id", "flight_id", "reward_date", "created_at").
		Order(goqu.I("id").Asc())
	if filter.ClientID.Valid() {
		ds = ds.Where(goqu.C("client_id").Eq(int64(filter.ClientID)))
	}
	if filter.FlightID.Valid() {
		ds = ds.Where(goqu.C("flight_id").Eq(int64(filter.FlightID)))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build rewards query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rewards := make([]domain.MilesReward, 0)
	for rows.Next() {
		reward, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		rewards = append(rewards, *reward)
	}
	return rewards, rows.Err()
}

func (r *PGRewardRepository) Update(ctx context.Context, reward *domain.MilesReward) error {
	cmd, err := r.db.Exec(ctx, `UPDATE miles_rewards SET client_id=$1, flight_id=$2, reward_date=$3 WHERE id=$4`,
		int64(reward.ClientID), int64(reward.FlightID), reward.Date, int64(reward.ID))
	if err != nil {
		return translate(err, fmt.Sprintf("reward %d", reward.ID))
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("reward %d not found", reward.ID)
	}
	return nil
}

func (r *PGRewardRepository) Delete(ctx context.Context, id domain.RewardID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM miles_rewards WHERE id=$1`, int64(id))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("reward %d not found", id)
	}
	return nil
}

func scanReward(row pgx.Row) (*domain.MilesReward, error) {
	var (
		reward             domain.MilesReward
		id, client, flight int64
	)
	if err := row.Scan(&id, &client, &flight, &reward.Date, &reward.CreatedAt); err != nil {
		return nil, err
	}
	reward.ID = domain.RewardID(id)
	reward.ClientID = domain.ClientID(client)
	reward.FlightID = domain.FlightID(flight)
	return &reward, nil
}

var _ RewardRepository = (*PGRewardRepository)(nil)
