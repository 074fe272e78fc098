package journal_test

import (
	"context"
	"testing"

	"medialink/core/database"
	"medialink/core/reconcile"
	"medialink/feature/journal"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newService(t *testing.T) *journal.Service {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	svc := journal.NewService(db, zap.NewNop())
	require.NoError(t, svc.Migrate())
	return svc
}

func TestService_RecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	rec := reconcile.LinkRecord{
		Destination: "/media/Show.mkv",
		Origin:      "/src/show.1080.mkv",
		Metadata:    reconcile.Metadata{"quality": "1080p"},
	}
	prev := reconcile.LinkRecord{Destination: "/media/Show.mkv", Origin: "/src/show.720.mkv"}

	require.NoError(t, svc.RecordDecision(ctx, 0, reconcile.DecisionEvent{
		PassID: "p1", Decision: reconcile.DecisionCreate, Record: prev,
	}))
	require.NoError(t, svc.RecordDecision(ctx, 0, reconcile.DecisionEvent{
		PassID: "p2", Decision: reconcile.DecisionOverride, Record: rec, Previous: &prev,
	}))
	require.NoError(t, svc.RecordRemoval(ctx, 1, reconcile.LinkRecord{Destination: "/media/Other.mkv", Origin: "/src/other.mkv"}))
	require.NoError(t, svc.RecordPass(ctx, reconcile.PassResult{PassID: "p2", Entry: 0}, []reconcile.LinkRecord{rec}))

	all, err := svc.List(ctx, journal.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, journal.ActionPass, all[0].Action, "newest first")
	assert.Equal(t, 1, all[0].Links)

	byDest, err := svc.List(ctx, journal.Filter{Destination: "/media/Show.mkv"})
	require.NoError(t, err)
	require.Len(t, byDest, 2)
	assert.Equal(t, journal.ActionOverride, byDest[0].Action)
	assert.Equal(t, "/src/show.720.mkv", byDest[0].Previous)
	assert.Equal(t, "1080p", byDest[0].Quality)

	entry := 1
	byEntry, err := svc.List(ctx, journal.Filter{Entry: &entry})
	require.NoError(t, err)
	require.Len(t, byEntry, 1)
	assert.Equal(t, journal.ActionRemove, byEntry[0].Action)

	limited, err := svc.List(ctx, journal.Filter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestService_CheckSchema(t *testing.T) {
	svc := newService(t)
	missing, err := svc.CheckSchema()
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestService_InsertError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `link_events`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	svc := journal.NewService(db, zap.NewNop())
	err = svc.RecordRemoval(context.Background(), 0, reconcile.LinkRecord{Destination: "/m/a", Origin: "/s/a"})
	assert.ErrorContains(t, err, "write journal")
	assert.NoError(t, mock.ExpectationsWereMet())
}
