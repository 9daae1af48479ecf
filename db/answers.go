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

// answerTable stores one answer record variant.
type answerTable struct {
	insert func(ctx context.Context, q Querier, rec models.AnswerRecord) error
	load   func(ctx context.Context, q Querier, id string) (models.AnswerRecord, error)
}

var answerTables = map[models.AnswerKind]answerTable{
	models.AnswerKindFood:   {insert: insertFoodPledge, load: loadFoodPledge},
	models.AnswerKindEnergy: {insert: insertEnergyPledge, load: loadEnergyPledge},
}

func tableFor(kind models.AnswerKind) (answerTable, error) {
	t, ok := answerTables[kind]
	if !ok {
		return answerTable{}, fmt.Errorf("%w: %q", models.ErrUnknownAnswerKind, kind)
	}
	return t, nil
}

// CreateAnswerRecord stores rec against a pledge and returns its ID.
// rec's ID and PledgeID fields are filled in.
func CreateAnswerRecord(ctx context.Context, q Querier, pledgeID string, rec models.AnswerRecord) (string, error) {
	t, err := tableFor(rec.Kind())
	if err != nil {
		return "", err
	}

	var id string
	switch r := rec.(type) {
	case *models.FoodPledge:
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.PledgeID, id = pledgeID, r.ID
	case *models.EnergyPledge:
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.PledgeID, id = pledgeID, r.ID
	default:
		return "", fmt.Errorf("%w: %T", models.ErrUnknownAnswerKind, rec)
	}

	if err := t.insert(ctx, q, rec); err != nil {
		return "", err
	}

	return id, nil
}

// GetAnswerRecord loads the answer record of the given kind.
func GetAnswerRecord(ctx context.Context, q Querier, kind models.AnswerKind, id string) (models.AnswerRecord, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rec, err := t.load(ctx, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrAnswerRecordNotFound, kind, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s answer record: %w", kind, err)
	}

	return rec, nil
}

func insertFoodPledge(ctx context.Context, q Querier, rec models.AnswerRecord) error {
	f := rec.(*models.FoodPledge)
	_, err := q.ExecContext(ctx, `
		INSERT INTO food_pledge (id, question_id, pledge_id, current_meals, vegetarian_meals)
		VALUES ($1, $2, $3, $4, $5)
	`, f.ID, f.QuestionID, f.PledgeID, f.CurrentMeals, f.VegetarianMeals)
	if err != nil {
		return fmt.Errorf("failed to insert food pledge: %w", err)
	}
	return nil
}

func loadFoodPledge(ctx context.Context, q Querier, id string) (models.AnswerRecord, error) {
	var f models.FoodPledge
	err := q.QueryRowContext(ctx, `
		SELECT id, question_id, pledge_id, current_meals, vegetarian_meals
		FROM food_pledge
		WHERE id = $1
	`, id).Scan(&f.ID, &f.QuestionID, &f.PledgeID, &f.CurrentMeals, &f.VegetarianMeals)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func insertEnergyPledge(ctx context.Context, q Querier, rec models.AnswerRecord) error {
	e := rec.(*models.EnergyPledge)
	_, err := q.ExecContext(ctx, `
		INSERT INTO energy_pledge (id, question_id, pledge_id, energy_supplier, number_of_people, heating_source)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.QuestionID, e.PledgeID, e.EnergySupplier, e.NumberOfPeople, e.HeatingSource)
	if err != nil {
		return fmt.Errorf("failed to insert energy pledge: %w", err)
	}
	return nil
}

func loadEnergyPledge(ctx context.Context, q Querier, id string) (models.AnswerRecord, error) {
	var e models.EnergyPledge
	err := q.QueryRowContext(ctx, `
		SELECT id, question_id, pledge_id, energy_supplier, number_of_people, heating_source
		FROM energy_pledge
		WHERE id = $1
	`, id).Scan(&e.ID, &e.QuestionID, &e.PledgeID, &e.EnergySupplier, &e.NumberOfPeople, &e.HeatingSource)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
