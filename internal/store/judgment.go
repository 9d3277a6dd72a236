package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olegische/normcore/internal/domain"
)

type JudgmentStore struct {
	db *pgxpool.Pool
}

func NewJudgmentStore(db *pgxpool.Pool) *JudgmentStore {
	return &JudgmentStore{db: db}
}

func (s *JudgmentStore) Create(ctx context.Context, j *domain.JudgmentRecord) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO judgments (status, licensed, can_retry, num_statements, num_acceptable,
		                        grounds_accepted, grounds_cited, explanation, payload)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		j.Status, j.Licensed, j.CanRetry, j.NumStatements, j.NumAcceptable,
		j.GroundsAccepted, j.GroundsCited, j.Explanation, j.Payload,
	).Scan(&j.ID, &j.CreatedAt)
}

func (s *JudgmentStore) ListRecent(ctx context.Context, limit int) ([]domain.JudgmentRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, status, licensed, can_retry, num_statements, num_acceptable,
		        grounds_accepted, grounds_cited, explanation, payload, created_at
		 FROM judgments
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.JudgmentRecord
	for rows.Next() {
		var j domain.JudgmentRecord
		if err := rows.Scan(&j.ID, &j.Status, &j.Licensed, &j.CanRetry, &j.NumStatements,
			&j.NumAcceptable, &j.GroundsAccepted, &j.GroundsCited, &j.Explanation,
			&j.Payload, &j.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, j)
	}
	return records, rows.Err()
}
