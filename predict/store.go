package predict

import (
	"context"
	"database/sql"
	"time"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// Store persists predictions and their validation outcomes in SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Save(ctx context.Context, p *Prediction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO predictions
			(id, created_at, target_at, current_price, predicted_price,
			 predicted_direction, confidence, market_regime, model_used,
			 price_change, price_change_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CreatedAt.UTC().Format(time.RFC3339), p.TargetAt.UTC().Format(time.RFC3339),
		p.CurrentPrice, p.PredictedPrice, p.PredictedDirection, p.Confidence,
		p.MarketRegime, p.ModelUsed, p.PriceChange, p.PriceChangePct)
	if err != nil {
		return errors.Wrap(err, "insert prediction")
	}
	return nil
}

// Latest returns the most recent prediction, or ErrNotFound.
func (s *Store) Latest(ctx context.Context) (*Prediction, error) {
	preds, err := s.query(ctx, `ORDER BY created_at DESC LIMIT 1`)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "no predictions recorded")
	}
	return &preds[0], nil
}

// Recent returns up to limit predictions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Prediction, error) {
	return s.query(ctx, `ORDER BY created_at DESC LIMIT ?`, limit)
}

// Pending returns unvalidated predictions whose target time has passed.
func (s *Store) Pending(ctx context.Context, asOf time.Time) ([]Prediction, error) {
	return s.query(ctx, `WHERE validated_at IS NULL AND target_at <= ? ORDER BY target_at ASC`,
		asOf.UTC().Format(time.RFC3339))
}

// MarkValidated records the validation outcome for one prediction.
func (s *Store) MarkValidated(ctx context.Context, id string, actual float64, correct bool, errAmount float64, note string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE predictions
		SET actual_price = ?, was_correct = ?, error_amount = ?, validated_at = ?, validation_note = ?
		WHERE id = ?`,
		actual, boolToInt(correct), errAmount, time.Now().UTC().Format(time.RFC3339), note, id)
	if err != nil {
		return errors.Wrap(err, "update prediction validation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(errors.ErrNotFound, "prediction %s", id)
	}
	return nil
}

// Accuracy aggregates validated outcomes over the most recent limit
// predictions.
func (s *Store) Accuracy(ctx context.Context, limit int) (*AccuracyStats, error) {
	preds, err := s.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}

	stats := &AccuracyStats{Total: len(preds)}
	var absErr float64
	for _, p := range preds {
		if p.ValidatedAt == nil {
			continue
		}
		stats.Validated++
		if p.WasCorrect != nil && *p.WasCorrect {
			stats.Correct++
		}
		if p.ErrorAmount != nil {
			absErr += *p.ErrorAmount
		}
	}
	if stats.Validated > 0 {
		stats.Accuracy = float64(stats.Correct) / float64(stats.Validated)
		stats.MeanAbsError = absErr / float64(stats.Validated)
	}
	return stats, nil
}

func (s *Store) query(ctx context.Context, clause string, args ...interface{}) ([]Prediction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, target_at, current_price, predicted_price,
		       predicted_direction, confidence, market_regime, model_used,
		       price_change, price_change_pct, actual_price, was_correct,
		       error_amount, validated_at, validation_note
		FROM predictions `+clause, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query predictions")
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var (
			p              Prediction
			createdAt      string
			targetAt       string
			actualPrice    sql.NullFloat64
			wasCorrect     sql.NullInt64
			errorAmount    sql.NullFloat64
			validatedAt    sql.NullString
			validationNote sql.NullString
		)
		if err := rows.Scan(&p.ID, &createdAt, &targetAt, &p.CurrentPrice,
			&p.PredictedPrice, &p.PredictedDirection, &p.Confidence,
			&p.MarketRegime, &p.ModelUsed, &p.PriceChange, &p.PriceChangePct,
			&actualPrice, &wasCorrect, &errorAmount, &validatedAt, &validationNote); err != nil {
			return nil, errors.Wrap(err, "scan prediction")
		}

		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.TargetAt, _ = time.Parse(time.RFC3339, targetAt)
		if actualPrice.Valid {
			v := actualPrice.Float64
			p.ActualPrice = &v
		}
		if wasCorrect.Valid {
			v := wasCorrect.Int64 == 1
			p.WasCorrect = &v
		}
		if errorAmount.Valid {
			v := errorAmount.Float64
			p.ErrorAmount = &v
		}
		if validatedAt.Valid {
			if ts, err := time.Parse(time.RFC3339, validatedAt.String); err == nil {
				p.ValidatedAt = &ts
			}
		}
		p.ValidationNote = validationNote.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
