package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fowlpos/internal/core/apperror"
)

// idemRow implements pgx.Row for the acquire upsert's RETURNING clause.
type idemRow struct {
	inserted bool
	rec      IdempotencyRecord
	err      error
}

func (r *idemRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*bool) = r.inserted
	*dest[1].(*string) = r.rec.Key
	*dest[2].(*string) = r.rec.UserID
	*dest[3].(*string) = r.rec.Operation
	*dest[4].(*IdempotencyStatus) = r.rec.Status
	*dest[5].(*string) = r.rec.RequestHash
	*dest[6].(*[]byte) = r.rec.Response
	*dest[7].(*int) = r.rec.StatusCode
	*dest[8].(*string) = r.rec.ContentType
	*dest[9].(*time.Time) = r.rec.CreatedAt
	*dest[10].(*time.Time) = r.rec.UpdatedAt
	*dest[11].(*time.Time) = r.rec.ExpiresAt
	return nil
}

// fakeIdemDB emulates the sys_idempotency table: the upsert reports whether
// it inserted, status updates mutate the stored record.
type fakeIdemDB struct {
	records  map[string]*IdempotencyRecord
	reclaims int
}

func newFakeIdemDB() *fakeIdemDB {
	return &fakeIdemDB{records: make(map[string]*IdempotencyRecord)}
}

func (db *fakeIdemDB) GetQuerier(ctx context.Context) Querier { return db }

func (db *fakeIdemDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	key := args[0].(string)
	if rec, ok := db.records[key]; ok {
		if expires := args[6].(time.Time); expires.After(rec.ExpiresAt) {
			rec.ExpiresAt = expires
		}
		return &idemRow{inserted: false, rec: *rec}
	}
	rec := &IdempotencyRecord{
		Key:         key,
		UserID:      args[1].(string),
		Operation:   args[2].(string),
		Status:      args[3].(IdempotencyStatus),
		RequestHash: args[4].(string),
		CreatedAt:   args[5].(time.Time),
		UpdatedAt:   args[5].(time.Time),
		ExpiresAt:   args[6].(time.Time),
	}
	db.records[key] = rec
	return &idemRow{inserted: true, rec: *rec}
}

func (db *fakeIdemDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	switch {
	case strings.HasPrefix(strings.TrimSpace(sql), "DELETE"):
		cutoff := args[0].(time.Time)
		for key, rec := range db.records {
			if rec.ExpiresAt.Before(cutoff) {
				delete(db.records, key)
			}
		}
	case len(args) == 4: // stale-pending reclaim
		db.reclaims++
		if rec, ok := db.records[args[2].(string)]; ok && rec.Status == IdempotencyStatusPending {
			rec.UpdatedAt = args[1].(time.Time)
		}
	case len(args) == 6: // complete / fail
		if rec, ok := db.records[args[5].(string)]; ok {
			rec.Status = args[0].(IdempotencyStatus)
			rec.Response = args[1].([]byte)
			rec.StatusCode = args[2].(int)
			rec.ContentType = args[3].(string)
			rec.UpdatedAt = args[4].(time.Time)
		}
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (db *fakeIdemDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not used by the idempotency store")
}

func TestAcquireKey_FirstUseAcquires(t *testing.T) {
	db := newFakeIdemDB()
	store := NewIdempotencyStore(db, 24*time.Hour)

	replay, err := store.AcquireKey(context.Background(), "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.NoError(t, err)
	assert.Nil(t, replay)

	rec := db.records["key-1"]
	require.NotNil(t, rec)
	assert.Equal(t, IdempotencyStatusPending, rec.Status)
}

func TestAcquireKey_RapidDuplicateBlocked(t *testing.T) {
	db := newFakeIdemDB()
	store := NewIdempotencyStore(db, 24*time.Hour)
	ctx := context.Background()

	_, err := store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.NoError(t, err)

	// Terminal double-click: the retry lands while the first request is
	// still settling. It must wait, never acquire a second slot.
	replay, err := store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.Error(t, err)
	assert.Nil(t, replay)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeIdempotency, appErr.Code)
}

func TestAcquireKey_ReplaysCompletedResponse(t *testing.T) {
	db := newFakeIdemDB()
	store := NewIdempotencyStore(db, 24*time.Hour)
	ctx := context.Background()

	_, err := store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.NoError(t, err)
	require.NoError(t, store.CompleteKey(ctx, "key-1", 201, "application/json", map[string]string{"orderId": "abc"}))

	replay, err := store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 201, replay.StatusCode)
	assert.Equal(t, "application/json", replay.ContentType)
	assert.Contains(t, string(replay.Body), "abc")
}

func TestAcquireKey_ReplaysFailedResponse(t *testing.T) {
	db := newFakeIdemDB()
	store := NewIdempotencyStore(db, 24*time.Hour)
	ctx := context.Background()

	_, err := store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.NoError(t, err)
	require.NoError(t, store.FailKey(ctx, "key-1", 400, "application/json", map[string]string{"code": "TOTAL_MISMATCH"}))

	replay, err := store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 400, replay.StatusCode)
}

func TestAcquireKey_DifferentRequestSameKeyRejected(t *testing.T) {
	db := newFakeIdemDB()
	store := NewIdempotencyStore(db, 24*time.Hour)
	ctx := context.Background()

	_, err := store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.NoError(t, err)

	_, err = store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-b")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeIdempotency, appErr.Code)
	assert.Contains(t, appErr.Message, "mismatch")
}

func TestAcquireKey_StalePendingReclaimed(t *testing.T) {
	db := newFakeIdemDB()
	store := NewIdempotencyStore(db, 24*time.Hour)
	ctx := context.Background()

	// The original request crashed mid-settlement two minutes ago.
	stale := time.Now().UTC().Add(-2 * time.Minute)
	db.records["key-1"] = &IdempotencyRecord{
		Key:         "key-1",
		UserID:      "user-42",
		Operation:   "POST /api/v1/orders",
		Status:      IdempotencyStatusPending,
		RequestHash: "hash-a",
		CreatedAt:   stale,
		UpdatedAt:   stale,
		ExpiresAt:   time.Now().UTC().Add(time.Hour),
	}

	replay, err := store.AcquireKey(ctx, "key-1", "user-42", "POST /api/v1/orders", "hash-a")
	require.NoError(t, err)
	assert.Nil(t, replay)
	assert.Equal(t, 1, db.reclaims)
}

func TestCleanupExpired(t *testing.T) {
	db := newFakeIdemDB()
	store := NewIdempotencyStore(db, time.Hour)

	db.records["old"] = &IdempotencyRecord{Key: "old", ExpiresAt: time.Now().UTC().Add(-time.Hour)}
	db.records["live"] = &IdempotencyRecord{Key: "live", ExpiresAt: time.Now().UTC().Add(time.Hour)}

	_, err := store.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, db.records, "old")
	assert.Contains(t, db.records, "live")
}
