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

// CreateUser inserts a user. Usernames are unique.
func CreateUser(ctx context.Context, q Querier, username string) (models.User, error) {
	u := models.User{ID: uuid.NewString(), Username: username}

	_, err := q.ExecContext(ctx, `
		INSERT INTO app_user (id, username) VALUES ($1, $2)
	`, u.ID, u.Username)
	if err != nil {
		if IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: %q: %w", ErrDuplicateUser, username, err)
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// GetUserByUsername looks a user up by name.
func GetUserByUsername(ctx context.Context, q Querier, username string) (models.User, error) {
	var u models.User
	err := q.QueryRowContext(ctx, `
		SELECT id, username FROM app_user WHERE username = $1
	`, username).Scan(&u.ID, &u.Username)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("%w: %q", ErrUserNotFound, username)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// EnsureUser returns the user with the given name, creating it if needed.
// A concurrent insert of the same name is absorbed by ON CONFLICT, so the
// follow-up lookup sees whichever row won.
func EnsureUser(ctx context.Context, q Querier, username string) (models.User, error) {
	_, err := q.ExecContext(ctx, `
		INSERT INTO app_user (id, username) VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, uuid.NewString(), username)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return GetUserByUsername(ctx, q, username)
}

// CreatePledge links a user to an action. Pledging the same action twice
// fails with ErrDuplicatePledge.
func CreatePledge(ctx context.Context, q Querier, userID, actionID string) (models.Pledge, error) {
	p := models.Pledge{ID: uuid.NewString(), UserID: userID, ActionID: actionID}

	_, err := q.ExecContext(ctx, `
		INSERT INTO pledge (id, user_id, action_id) VALUES ($1, $2, $3)
	`, p.ID, p.UserID, p.ActionID)
	if err != nil {
		if IsUniqueViolation(err) {
			return models.Pledge{}, fmt.Errorf("%w: %w", ErrDuplicatePledge, err)
		}
		return models.Pledge{}, fmt.Errorf("failed to insert pledge: %w", err)
	}

	return p, nil
}

const pledgeDetailQuery = `
	SELECT p.id, p.user_id, p.action_id, u.username,
	       a.id, a.name, a.question_text, a.co2_formula, a.water_formula, a.waste_formula,
	       a.version, a.answer_kind, a.answer_id
	FROM pledge p
	JOIN app_user u ON u.id = p.user_id
	JOIN pledge_action a ON a.id = p.action_id
`

func scanPledgeDetail(row rowScanner, d *models.PledgeDetail) error {
	var kind string
	if err := row.Scan(
		&d.ID, &d.UserID, &d.ActionID, &d.Username,
		&d.Action.ID, &d.Action.Name, &d.Action.QuestionText,
		&d.Action.CO2Formula, &d.Action.WaterFormula, &d.Action.WasteFormula,
		&d.Action.Version, &kind, &d.Action.AnswerID,
	); err != nil {
		return err
	}
	d.Action.AnswerKind = models.AnswerKind(kind)
	return nil
}

// GetPledgeDetail loads a pledge with its user, action and answer record.
func GetPledgeDetail(ctx context.Context, q Querier, pledgeID string) (models.PledgeDetail, error) {
	var d models.PledgeDetail
	err := scanPledgeDetail(q.QueryRowContext(ctx, pledgeDetailQuery+`WHERE p.id = $1`, pledgeID), &d)

	if errors.Is(err, sql.ErrNoRows) {
		return models.PledgeDetail{}, fmt.Errorf("%w: %s", ErrPledgeNotFound, pledgeID)
	}
	if err != nil {
		return models.PledgeDetail{}, fmt.Errorf("failed to query pledge: %w", err)
	}

	if err := attachRecords(ctx, q, []*models.PledgeDetail{&d}); err != nil {
		return models.PledgeDetail{}, err
	}

	return d, nil
}

// ListPledgeDetails returns every pledge, or only those of username when it
// is not empty. An unknown username yields an empty slice.
func ListPledgeDetails(ctx context.Context, q Querier, username string) ([]models.PledgeDetail, error) {
	query, args := pledgeDetailQuery, []any{}
	if username != "" {
		query += `WHERE u.username = $1 `
		args = append(args, username)
	}
	query += `ORDER BY u.username, a.name, a.version`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pledges: %w", err)
	}

	details := []models.PledgeDetail{}
	for rows.Next() {
		var d models.PledgeDetail
		if err := scanPledgeDetail(rows, &d); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan pledge: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read pledges: %w", err)
	}
	rows.Close()

	ptrs := make([]*models.PledgeDetail, len(details))
	for i := range details {
		ptrs[i] = &details[i]
	}
	if err := attachRecords(ctx, q, ptrs); err != nil {
		return nil, err
	}

	return details, nil
}

// attachRecords loads each distinct answer record linked from the pledges'
// actions once. Must not be called with rows still open on q.
func attachRecords(ctx context.Context, q Querier, details []*models.PledgeDetail) error {
	loaded := make(map[string]models.AnswerRecord)
	for _, d := range details {
		if d.Action.AnswerID == nil {
			continue
		}
		key := string(d.Action.AnswerKind) + "/" + *d.Action.AnswerID
		rec, ok := loaded[key]
		if !ok {
			var err error
			rec, err = GetAnswerRecord(ctx, q, d.Action.AnswerKind, *d.Action.AnswerID)
			if errors.Is(err, ErrAnswerRecordNotFound) {
				// Dangling link: the record's pledge was deleted.
				loaded[key] = nil
				continue
			}
			if err != nil {
				return err
			}
			loaded[key] = rec
		}
		d.Record = rec
	}
	return nil
}

// SubmitPledge records a user's pledge and answers in one transaction:
// the user is created if needed, the pledge and its answer record are
// inserted, and the action is linked to the record if it has no record yet.
func SubmitPledge(ctx context.Context, conn *sql.DB, username, actionID string, rec models.AnswerRecord) (models.PledgeDetail, string, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return models.PledgeDetail{}, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	action, err := GetAction(ctx, tx, actionID)
	if err != nil {
		return models.PledgeDetail{}, "", err
	}
	if rec.Kind() != action.AnswerKind {
		return models.PledgeDetail{}, "", fmt.Errorf("%w: got %s, action %q takes %s",
			ErrAnswerKindMismatch, rec.Kind(), action.Name, action.AnswerKind)
	}

	user, err := EnsureUser(ctx, tx, username)
	if err != nil {
		return models.PledgeDetail{}, "", err
	}

	pledge, err := CreatePledge(ctx, tx, user.ID, action.ID)
	if err != nil {
		return models.PledgeDetail{}, "", err
	}

	answerID, err := CreateAnswerRecord(ctx, tx, pledge.ID, rec)
	if err != nil {
		return models.PledgeDetail{}, "", err
	}

	if _, err := LinkAnswerRecord(ctx, tx, action.ID, answerID); err != nil {
		return models.PledgeDetail{}, "", err
	}

	detail, err := GetPledgeDetail(ctx, tx, pledge.ID)
	if err != nil {
		return models.PledgeDetail{}, "", err
	}

	if err := tx.Commit(); err != nil {
		return models.PledgeDetail{}, "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, answerID, nil
}
