// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/green-pledges/models"
)

const actionColumns = `id, name, question_text, co2_formula, water_formula, waste_formula, version, answer_kind, answer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(row rowScanner, a *models.Action) error {
	var kind string
	if err := row.Scan(
		&a.ID, &a.Name, &a.QuestionText,
		&a.CO2Formula, &a.WaterFormula, &a.WasteFormula,
		&a.Version, &kind, &a.AnswerID,
	); err != nil {
		return err
	}
	a.AnswerKind = models.AnswerKind(kind)
	return nil
}

// CreateAction inserts an action, assigning an ID if it has none.
// A second action with the same name and version fails with ErrDuplicateAction.
func CreateAction(ctx context.Context, q Querier, a *models.Action) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO pledge_action (id, name, question_text, co2_formula, water_formula, waste_formula, version, answer_kind, answer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.Name, a.QuestionText, a.CO2Formula, a.WaterFormula, a.WasteFormula, a.Version, string(a.AnswerKind), a.AnswerID)

	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %q version %q: %w", ErrDuplicateAction, a.Name, a.Version, err)
		}
		return fmt.Errorf("failed to insert action: %w", err)
	}

	return nil
}

// GetAction loads an action by ID.
func GetAction(ctx context.Context, q Querier, id string) (models.Action, error) {
	var a models.Action
	err := scanAction(q.QueryRowContext(ctx, `
		SELECT `+actionColumns+`
		FROM pledge_action
		WHERE id = $1
	`, id), &a)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Action{}, fmt.Errorf("%w: %s", ErrActionNotFound, id)
	}
	if err != nil {
		return models.Action{}, fmt.Errorf("failed to query action: %w", err)
	}

	return a, nil
}

// ListActions returns the catalog ordered by name and version.
func ListActions(ctx context.Context, q Querier) ([]models.Action, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+actionColumns+`
		FROM pledge_action
		ORDER BY name, version
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	actions := []models.Action{}
	for rows.Next() {
		var a models.Action
		if err := scanAction(rows, &a); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, a)
	}

	return actions, rows.Err()
}

// DeleteAction removes an action together with its pledges and their
// answer records.
func DeleteAction(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM pledge_action WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrActionNotFound, id)
	}

	return nil
}

// LinkAnswerRecord points an action at the answer record its formulas read.
// An existing link is kept; the returned bool reports whether this call set it.
func LinkAnswerRecord(ctx context.Context, q Querier, actionID, answerID string) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE pledge_action SET answer_id = $1
		WHERE id = $2 AND answer_id IS NULL
	`, answerID, actionID)
	if err != nil {
		return false, fmt.Errorf("failed to link answer record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to link answer record: %w", err)
	}

	return n == 1, nil
}
