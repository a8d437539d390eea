package mysql

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garment-erp/internal/service/pipeline"
	"garment-erp/internal/storage"
)

var testStorage *Storage

// Integration tests run against a real MySQL only when GARMENT_TEST_DSN is set,
// e.g. "root:@tcp(localhost:3306)/garment_test?parseTime=true&clientFoundRows=true".
func TestMain(m *testing.M) {
	dsn := os.Getenv("GARMENT_TEST_DSN")
	if dsn != "" {
		var err error
		testStorage, err = New(dsn)
		if err != nil {
			panic(fmt.Errorf("cannot connect to test database: %w", err))
		}
		if err := testStorage.Migrate(context.Background()); err != nil {
			panic(fmt.Errorf("migrate test database: %w", err))
		}
	}

	code := m.Run()

	if testStorage != nil {
		testStorage.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testStorage == nil {
		t.Skip("GARMENT_TEST_DSN is not set")
	}
}

func cleanupTestDB(t *testing.T) {
	tables := []string{"work_items", "bundles", "rolls", "lots", "templates", "operators"}
	for _, table := range tables {
		_, err := testStorage.db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestStorage_LotRoundTrip(t *testing.T) {
	requireDB(t)
	cleanupTestDB(t)
	ctx := context.Background()

	lot := storage.Lot{
		LotNumber:  "T-100",
		FabricName: "Jersey",
		RollCount:  2,
		Articles:   []storage.Article{{ArticleNumber: "8085", StyleName: "Polo"}},
		SizeConfig: map[string]storage.SizeConfig{"8085": {Sizes: "S:M:L", Ratios: "1:2:1"}},
		Rolls: []storage.Roll{
			{ID: "t100-r1", RollNumber: 1, ColorName: "Blue-1", LayerCount: 10, Pieces: 40},
			{ID: "t100-r2", RollNumber: 2, ColorName: "Red", LayerCount: 5, Pieces: 20},
		},
	}

	id, err := testStorage.SaveLot(ctx, lot)
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = testStorage.SaveLot(ctx, lot)
	assert.ErrorIs(t, err, storage.ErrLotExists)

	got, err := testStorage.GetLot(ctx, "T-100")
	require.NoError(t, err)
	assert.Equal(t, storage.LotDraft, got.Status)
	assert.Equal(t, lot.Articles, got.Articles)
	assert.Equal(t, lot.SizeConfig, got.SizeConfig)
	require.Len(t, got.Rolls, 2)
	assert.Equal(t, "Red", got.Rolls[1].ColorName)

	require.NoError(t, testStorage.MarkLotConverted(ctx, "T-100"))
	require.NoError(t, testStorage.MarkLotConverted(ctx, "T-100"))

	_, err = testStorage.GetLot(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrLotNotFound)

	other := lot
	other.LotNumber = "T-101"
	_, err = testStorage.SaveLot(ctx, other)
	assert.ErrorIs(t, err, storage.ErrRollExists)

	bundles := []storage.Bundle{{BundleID: "T-100-B001", LotNumber: "T-100", RollID: "t100-r1", ArticleNumber: "8085",
		Size: "S", Layers: 10, Ratio: 1, Pieces: 10, Status: "cut_ready", Priority: "normal"}}
	require.NoError(t, testStorage.SaveBundles(ctx, bundles))
	assert.ErrorIs(t, testStorage.SaveBundles(ctx, bundles), storage.ErrBundlesExist)
}

func TestStorage_WorkItemLifecycle(t *testing.T) {
	requireDB(t)
	cleanupTestDB(t)
	ctx := context.Background()

	operatorID, err := testStorage.SaveOperator(ctx, storage.Operator{Name: "Sita", MachineType: "overlock", SkillLevel: "medium", IsActive: true})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	items := []storage.WorkItem{
		{ID: "B1-op1", BundleID: "B1", LotNumber: "T-1", TemplateID: "tpl", ArticleNumber: "8085", Size: "S", Pieces: 10,
			OperationID: "op1", Sequence: 1, Status: "ready", Priority: "normal", Rate: 2.5, TotalEarnings: 25, CreatedAt: now},
		{ID: "B1-op2", BundleID: "B1", LotNumber: "T-1", TemplateID: "tpl", ArticleNumber: "8085", Size: "S", Pieces: 10,
			OperationID: "op2", Sequence: 2, Status: "waiting", Priority: "normal", Dependencies: []string{"B1-op1"}, CreatedAt: now},
	}
	require.NoError(t, testStorage.SaveWorkItems(ctx, items))

	err = testStorage.AssignWorkItem(ctx, "B1-op2", operatorID)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	err = testStorage.AssignWorkItem(ctx, "B1-op1", operatorID+1000)
	assert.ErrorIs(t, err, storage.ErrOperatorNotFound)

	require.NoError(t, testStorage.AssignWorkItem(ctx, "B1-op1", operatorID))
	require.NoError(t, testStorage.UpdateWorkItemStatus(ctx, "B1-op1", "in_progress", now))

	failCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	_, err = testStorage.CompleteWorkItem(failCtx, "B1-op1", now, func(items []storage.WorkItem) []string {
		cancel()
		return pipeline.ReleaseDependents(items)
	})
	assert.Error(t, err)

	rolledBack, err := testStorage.GetWorkItems(ctx, storage.WorkItemFilter{LotNumber: "T-1"})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", rolledBack[0].Status)
	assert.Equal(t, "waiting", rolledBack[1].Status)

	released, err := testStorage.CompleteWorkItem(ctx, "B1-op1", now, pipeline.ReleaseDependents)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1-op2"}, released)

	released, err = testStorage.CompleteWorkItem(ctx, "B1-op1", now, pipeline.ReleaseDependents)
	require.NoError(t, err)
	assert.Empty(t, released)

	_, err = testStorage.CompleteWorkItem(ctx, "nope", now, pipeline.ReleaseDependents)
	assert.ErrorIs(t, err, storage.ErrWorkItemNotFound)

	byBundle, err := testStorage.GetWorkItems(ctx, storage.WorkItemFilter{LotNumber: "T-1"})
	require.NoError(t, err)
	require.Len(t, byBundle, 2)
	assert.Equal(t, "completed", byBundle[0].Status)
	require.NotNil(t, byBundle[0].AssignedOperator)
	assert.Equal(t, operatorID, *byBundle[0].AssignedOperator)
	assert.Equal(t, "ready", byBundle[1].Status)
	assert.Equal(t, []string{"B1-op1"}, byBundle[1].Dependencies)

	done, err := testStorage.GetWorkItems(ctx, storage.WorkItemFilter{OperatorID: &operatorID, Status: "completed"})
	require.NoError(t, err)
	assert.Len(t, done, 1)
}
