// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/green-pledges/db"
	"github.com/danielhkuo/green-pledges/models"
	"github.com/danielhkuo/green-pledges/testutil"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	assert.NoError(t, db.CreateSchema(conn))
	assert.NoError(t, db.CreateSchema(conn))
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := db.Open(context.Background(), "mysql", "whatever")
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestCreateAndGetAction(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	created := testutil.CreateTestAction(t, conn, testutil.FoodAction())
	require.NotEmpty(t, created.ID)

	got, err := db.GetAction(ctx, conn, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Nil(t, got.AnswerID)
}

func TestCreateAction_Duplicate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	testutil.CreateTestAction(t, conn, testutil.FoodAction())

	dup := testutil.FoodAction()
	err := db.CreateAction(ctx, conn, &dup)
	assert.ErrorIs(t, err, db.ErrDuplicateAction)
	assert.True(t, db.IsUniqueViolation(err))

	newVersion := testutil.FoodAction()
	newVersion.Version = "version 2.0"
	assert.NoError(t, db.CreateAction(ctx, conn, &newVersion), "same name with a new version is allowed")
}

func TestGetAction_NotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	_, err := db.GetAction(context.Background(), conn, "missing")
	assert.ErrorIs(t, err, db.ErrActionNotFound)
}

func TestListActions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	actions, err := db.ListActions(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, actions)

	testutil.CreateTestAction(t, conn, testutil.FoodAction())
	testutil.CreateTestAction(t, conn, testutil.EnergyAction())

	actions, err = db.ListActions(ctx, conn)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "switch to green energy", actions[0].Name)
	assert.Equal(t, "test action", actions[1].Name)
}

func TestSubmitPledge(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	action := testutil.CreateTestAction(t, conn, testutil.FoodAction())

	detail, answerID, err := db.SubmitPledge(ctx, conn, "test_user", action.ID, testutil.FoodAnswers(5, "3"))
	require.NoError(t, err)

	assert.Equal(t, "test_user", detail.Username)
	assert.Equal(t, action.ID, detail.ActionID)
	assert.Equal(t, "version 1.0", detail.Version())
	require.NotNil(t, detail.Action.AnswerID, "first pledge links its answers to the action")
	assert.Equal(t, answerID, *detail.Action.AnswerID)

	require.NotNil(t, detail.Record)
	food, ok := detail.Record.(*models.FoodPledge)
	require.True(t, ok)
	assert.Equal(t, int64(5), food.CurrentMeals)
	assert.True(t, decimal.NewFromInt(3).Equal(food.VegetarianMeals))
	assert.Equal(t, detail.ID, food.PledgeID)
}

func TestSubmitPledge_KeepsFirstLink(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	action := testutil.CreateTestAction(t, conn, testutil.FoodAction())
	first := testutil.AddTestPledge(t, conn, "alice", action.ID, testutil.FoodAnswers(5, "3"))

	second, answerID, err := db.SubmitPledge(ctx, conn, "bob", action.ID, testutil.FoodAnswers(2, "2.5"))
	require.NoError(t, err)

	assert.NotEqual(t, *first.Action.AnswerID, answerID)
	assert.Equal(t, *first.Action.AnswerID, *second.Action.AnswerID)
	assert.Equal(t, int64(5), second.Record.(*models.FoodPledge).CurrentMeals)
}

func TestSubmitPledge_Duplicate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	action := testutil.CreateTestAction(t, conn, testutil.FoodAction())
	testutil.AddTestPledge(t, conn, "alice", action.ID, testutil.FoodAnswers(5, "3"))

	_, _, err := db.SubmitPledge(ctx, conn, "alice", action.ID, testutil.FoodAnswers(1, "3"))
	assert.ErrorIs(t, err, db.ErrDuplicatePledge)
	assert.True(t, db.IsUniqueViolation(err))

	details, err := db.ListPledgeDetails(ctx, conn, "alice")
	require.NoError(t, err)
	assert.Len(t, details, 1, "failed submission is rolled back")
}

func TestSubmitPledge_UnknownAction(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	_, _, err := db.SubmitPledge(context.Background(), conn, "alice", "missing", testutil.FoodAnswers(5, "3"))
	assert.ErrorIs(t, err, db.ErrActionNotFound)

	_, err = db.GetUserByUsername(context.Background(), conn, "alice")
	assert.ErrorIs(t, err, db.ErrUserNotFound)
}

func TestSubmitPledge_KindMismatch(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	action := testutil.CreateTestAction(t, conn, testutil.FoodAction())

	_, _, err := db.SubmitPledge(context.Background(), conn, "alice", action.ID, testutil.EnergyAnswers("0.5", 2, "3.0"))
	assert.ErrorIs(t, err, db.ErrAnswerKindMismatch)
}

func TestEnergyAnswerRecord(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	action := testutil.CreateTestAction(t, conn, testutil.EnergyAction())
	detail := testutil.AddTestPledge(t, conn, "alice", action.ID, testutil.EnergyAnswers("0.5", 2, "3.0"))

	rec, err := db.GetAnswerRecord(ctx, conn, models.AnswerKindEnergy, *detail.Action.AnswerID)
	require.NoError(t, err)

	energy, ok := rec.(*models.EnergyPledge)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("0.5").Equal(energy.EnergySupplier))
	assert.Equal(t, int64(2), energy.NumberOfPeople)
	assert.True(t, decimal.NewFromInt(3).Equal(energy.HeatingSource))
	assert.Equal(t, "energy pledge", energy.QuestionID)
}

func TestGetAnswerRecord_Errors(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	_, err := db.GetAnswerRecord(ctx, conn, models.AnswerKindFood, "missing")
	assert.ErrorIs(t, err, db.ErrAnswerRecordNotFound)

	_, err = db.GetAnswerRecord(ctx, conn, "water", "x")
	assert.ErrorIs(t, err, models.ErrUnknownAnswerKind)
}

func TestListPledgeDetails(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	food := testutil.CreateTestAction(t, conn, testutil.FoodAction())
	energy := testutil.CreateTestAction(t, conn, testutil.EnergyAction())

	testutil.AddTestPledge(t, conn, "bob", food.ID, testutil.FoodAnswers(5, "3"))
	testutil.AddTestPledge(t, conn, "alice", energy.ID, testutil.EnergyAnswers("0.5", 2, "3.0"))
	testutil.AddTestPledge(t, conn, "alice", food.ID, testutil.FoodAnswers(2, "2.5"))

	all, err := db.ListPledgeDetails(ctx, conn, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "switch to green energy", all[0].Action.Name)
	assert.Equal(t, "alice", all[1].Username)
	assert.Equal(t, "test action", all[1].Action.Name)
	assert.Equal(t, "bob", all[2].Username)

	// Pledges of one action share the action's linked record.
	assert.Equal(t, int64(5), all[1].Record.(*models.FoodPledge).CurrentMeals)

	alice, err := db.ListPledgeDetails(ctx, conn, "alice")
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	nobody, err := db.ListPledgeDetails(ctx, conn, "nonexistent")
	require.NoError(t, err)
	assert.NotNil(t, nobody)
	assert.Empty(t, nobody)
}

func TestDeleteAction_Cascades(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	action := testutil.CreateTestAction(t, conn, testutil.FoodAction())
	detail := testutil.AddTestPledge(t, conn, "alice", action.ID, testutil.FoodAnswers(5, "3"))

	require.NoError(t, db.DeleteAction(ctx, conn, action.ID))

	_, err := db.GetPledgeDetail(ctx, conn, detail.ID)
	assert.ErrorIs(t, err, db.ErrPledgeNotFound)

	_, err = db.GetAnswerRecord(ctx, conn, models.AnswerKindFood, *detail.Action.AnswerID)
	assert.ErrorIs(t, err, db.ErrAnswerRecordNotFound)

	// The user survives their pledges.
	_, err = db.GetUserByUsername(ctx, conn, "alice")
	assert.NoError(t, err)

	assert.ErrorIs(t, db.DeleteAction(ctx, conn, action.ID), db.ErrActionNotFound)
}

func TestEnsureUser(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	u1, err := db.EnsureUser(ctx, conn, "alice")
	require.NoError(t, err)
	u2, err := db.EnsureUser(ctx, conn, "alice")
	require.NoError(t, err)
	assert.Equal(t, u1, u2)

	_, err = db.CreateUser(ctx, conn, "alice")
	assert.ErrorIs(t, err, db.ErrDuplicateUser)
}

func TestEnsureUser_ExistingUserInTransaction(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	created, err := db.CreateUser(ctx, conn, "bob")
	require.NoError(t, err)
	action := testutil.CreateTestAction(t, conn, testutil.FoodAction())

	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	got, err := db.EnsureUser(ctx, tx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// The conflicting insert must leave the transaction usable.
	_, err = db.CreatePledge(ctx, tx, got.ID, action.ID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
}

func TestLinkAnswerRecord(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	ctx := context.Background()

	action := testutil.CreateTestAction(t, conn, testutil.FoodAction())

	linked, err := db.LinkAnswerRecord(ctx, conn, action.ID, "first")
	require.NoError(t, err)
	assert.True(t, linked)

	linked, err = db.LinkAnswerRecord(ctx, conn, action.ID, "second")
	require.NoError(t, err)
	assert.False(t, linked)

	got, err := db.GetAction(ctx, conn, action.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", *got.AnswerID)
}
