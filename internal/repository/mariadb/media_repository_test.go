package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/model"
)

var mockID = db.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))

func newMockRepo(t *testing.T) (*MediaRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	return NewMediaRepository(sqlDB), mock, func() { _ = sqlDB.Close() }
}

func sampleRecord() *model.MediaRecord {
	hash := "deadbeef"
	size := int64(42)
	mime := "image/png"
	return &model.MediaRecord{
		MessageID:      mockID,
		ConversationID: "conv-1",
		BusinessID:     "biz-1",
		MediaHash:      &hash,
		MediaSize:      &size,
		MediaMime:      &mime,
		FetchStatus:    model.FetchStatusPending,
	}
}

func TestMediaRepository_Create_Success(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	rec := sampleRecord()

	mock.ExpectExec(regexp.QuoteMeta(`
      INSERT INTO message_media
        (message_id, conversation_id, business_id, media_id, media_key, media_url, media_hash, media_size, media_mime, original_filename, storage_provider, fetch_status, fetch_started_at, failure_message)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)).
		WithArgs(
			rec.MessageID, rec.ConversationID, rec.BusinessID,
			rec.MediaID, rec.MediaKey, rec.MediaURL,
			rec.MediaHash, rec.MediaSize, rec.MediaMime,
			rec.OriginalFilename, rec.StorageProvider,
			rec.FetchStatus, rec.FetchStartedAt, rec.FailureMessage,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), rec); err != nil {
		t.Errorf("Create() returned unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestMediaRepository_Create_ExecError(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	execErr := errors.New("exec failed")
	mock.ExpectExec("INSERT INTO message_media").WillReturnError(execErr)

	if err := repo.Create(context.Background(), sampleRecord()); !errors.Is(err, execErr) {
		t.Errorf("Create() error = %v; want %v", err, execErr)
	}
}

func TestMediaRepository_GetByMessageID_Success(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	now := time.Now()
	cols := []string{
		"message_id", "conversation_id", "business_id", "media_id", "media_key",
		"media_url", "media_hash", "media_size", "media_mime", "original_filename",
		"storage_provider", "fetch_status", "fetch_started_at", "failure_message",
		"created_at", "updated_at",
	}
	rows := sqlmock.NewRows(cols).AddRow(
		mockID[:], "conv-1", "biz-1", "m-1", "media/business/biz-1/key",
		"https://cdn.example.com/key", "deadbeef", int64(42), "image/png", "photo.png",
		"minio", "ready", nil, nil,
		now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM message_media").
		WithArgs(mockID).
		WillReturnRows(rows)

	rec, err := repo.GetByMessageID(context.Background(), mockID)
	if err != nil {
		t.Fatalf("GetByMessageID() returned unexpected error: %v", err)
	}
	if rec.MessageID != mockID {
		t.Errorf("message ID %s; want %s", rec.MessageID, mockID)
	}
	if rec.FetchStatus != model.FetchStatusReady {
		t.Errorf("status %q; want ready", rec.FetchStatus)
	}
	if rec.MediaKey == nil || !strings.Contains(*rec.MediaKey, "biz-1") {
		t.Error("media key should round-trip")
	}
}

func TestMediaRepository_GetByMessageID_NotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM message_media").
		WithArgs(mockID).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByMessageID(context.Background(), mockID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetByMessageID() error = %v; want sql.ErrNoRows", err)
	}
}

func TestMediaRepository_Delete(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM message_media WHERE message_id = ?`)).
		WithArgs(mockID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), mockID); err != nil {
		t.Errorf("Delete() returned unexpected error: %v", err)
	}
}

func TestMediaRepository_AcquireFetch_Won(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE message_media").
		WithArgs(mockID, int64(300)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.AcquireFetch(context.Background(), mockID, 5*time.Minute)
	if err != nil {
		t.Fatalf("AcquireFetch() returned unexpected error: %v", err)
	}
	if !ok {
		t.Error("AcquireFetch() = false; want true when one row was updated")
	}
}

func TestMediaRepository_AcquireFetch_Lost(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE message_media").
		WithArgs(mockID, int64(300)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.AcquireFetch(context.Background(), mockID, 5*time.Minute)
	if err != nil {
		t.Fatalf("AcquireFetch() returned unexpected error: %v", err)
	}
	if ok {
		t.Error("AcquireFetch() = true; want false when no row matched")
	}
}

func TestMediaRepository_AcquireFetch_ExecError(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	execErr := errors.New("deadlock")
	mock.ExpectExec("UPDATE message_media").WillReturnError(execErr)

	if _, err := repo.AcquireFetch(context.Background(), mockID, 5*time.Minute); !errors.Is(err, execErr) {
		t.Errorf("AcquireFetch() error = %v; want %v", err, execErr)
	}
}

func TestMediaRepository_ReleaseFetch_Success(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	rec := sampleRecord()
	rec.FetchStatus = model.FetchStatusReady

	mock.ExpectExec("UPDATE message_media").
		WithArgs(
			rec.MediaID, rec.MediaKey, rec.MediaURL,
			rec.MediaHash, rec.MediaSize, rec.MediaMime,
			rec.StorageProvider, rec.FetchStatus, rec.FailureMessage,
			rec.MessageID,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ReleaseFetch(context.Background(), rec); err != nil {
		t.Errorf("ReleaseFetch() returned unexpected error: %v", err)
	}
}

func TestMediaRepository_ReleaseFetch_RowNotFetching(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	rec := sampleRecord()
	rec.FetchStatus = model.FetchStatusFailed

	mock.ExpectExec("UPDATE message_media").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReleaseFetch(context.Background(), rec)
	if err == nil {
		t.Fatal("expected error when no in-flight fetch matched")
	}
	if !strings.Contains(err.Error(), "no in-flight fetch") {
		t.Errorf("error %q should say no in-flight fetch matched", err)
	}
}

func TestMediaRepository_ReleaseFetch_InvalidStatus(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	rec := sampleRecord()
	rec.FetchStatus = model.FetchStatusFetching

	if err := repo.ReleaseFetch(context.Background(), rec); err == nil {
		t.Fatal("expected error when releasing to a non-terminal status")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no SQL should run for an invalid release: %s", err)
	}
}

func TestMediaRepository_ListStaleFetching(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	otherID := db.UUID(uuid.MustParse("bbbbbbbb-cccc-dddd-eeee-ffffffffffff"))
	before := time.Now().Add(-5 * time.Minute)

	rows := sqlmock.NewRows([]string{"message_id"}).AddRow(mockID[:]).AddRow(otherID[:])
	mock.ExpectQuery("SELECT message_id").
		WithArgs(before).
		WillReturnRows(rows)

	ids, err := repo.ListStaleFetching(context.Background(), before)
	if err != nil {
		t.Fatalf("ListStaleFetching() returned unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != mockID || ids[1] != otherID {
		t.Errorf("ids %v; want [%s %s]", ids, mockID, otherID)
	}
}

func TestMediaRepository_ListStaleFetching_QueryError(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	queryErr := errors.New("db gone")
	mock.ExpectQuery("SELECT message_id").WillReturnError(queryErr)

	if _, err := repo.ListStaleFetching(context.Background(), time.Now()); !errors.Is(err, queryErr) {
		t.Errorf("ListStaleFetching() error = %v; want %v", err, queryErr)
	}
}
