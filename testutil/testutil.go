// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/danielhkuo/green-pledges/cliparse"
	"github.com/danielhkuo/green-pledges/db"
	"github.com/danielhkuo/green-pledges/models"
)

// TestAdminKey is the admin key of GetTestConfig.
const TestAdminKey = "test-admin-key"

// SetupTestDB opens a fresh SQLite database in a temporary directory with
// the full schema. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "pledges.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, url)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.CreateSchema(conn), "failed to create schema")

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file:pledges.db",
		DatabaseType: db.TypeSQLite,
		AdminKey:     TestAdminKey,
		LogLevel:     "debug",
	}
}

// TestLogger returns a logger that writes through t.Log.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// FoodAction returns an unsaved food action whose formulas give 1.2 co2,
// 2.0 water and 13.5 waste for FoodAnswers(5, "3").
func FoodAction() models.Action {
	return models.Action{
		Name:         "test action",
		QuestionText: "test question",
		CO2Formula:   lo.ToPtr("0.8 * vegetarian_meals * 0.5"),
		WaterFormula: lo.ToPtr("0.4 * current_meals"),
		WasteFormula: lo.ToPtr("0.9 * current_meals * vegetarian_meals"),
		Version:      "version 1.0",
		AnswerKind:   models.AnswerKindFood,
	}
}

// EnergyAction returns an unsaved energy action with a co2 formula only.
func EnergyAction() models.Action {
	return models.Action{
		Name:         "switch to green energy",
		QuestionText: "who supplies your energy?",
		CO2Formula:   lo.ToPtr("energy_supplier * number_of_people * heating_source"),
		Version:      "version 1.0",
		AnswerKind:   models.AnswerKindEnergy,
	}
}

// FoodAnswers builds a food answer record.
func FoodAnswers(currentMeals int64, vegetarianMeals string) *models.FoodPledge {
	return &models.FoodPledge{
		QuestionID:      "food pledge",
		CurrentMeals:    currentMeals,
		VegetarianMeals: decimal.RequireFromString(vegetarianMeals),
	}
}

// EnergyAnswers builds an energy answer record.
func EnergyAnswers(supplier string, people int64, heating string) *models.EnergyPledge {
	return &models.EnergyPledge{
		QuestionID:     "energy pledge",
		EnergySupplier: decimal.RequireFromString(supplier),
		NumberOfPeople: people,
		HeatingSource:  decimal.RequireFromString(heating),
	}
}

// CreateTestAction saves an action and returns it with its new ID.
func CreateTestAction(t *testing.T, conn *sql.DB, a models.Action) models.Action {
	t.Helper()

	require.NoError(t, db.CreateAction(context.Background(), conn, &a), "failed to create test action")
	return a
}

// AddTestPledge submits a pledge for username with the given answers.
func AddTestPledge(t *testing.T, conn *sql.DB, username, actionID string, rec models.AnswerRecord) models.PledgeDetail {
	t.Helper()

	detail, _, err := db.SubmitPledge(context.Background(), conn, username, actionID, rec)
	require.NoError(t, err, "failed to add test pledge")
	return detail
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := jsoniter.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AdminHeaders returns the headers of an authorized catalog request.
func AdminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": TestAdminKey}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, w.Code, "unexpected status, body: %s", w.Body.String())
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, jsoniter.NewDecoder(w.Body).Decode(v), "failed to decode JSON response")
}
