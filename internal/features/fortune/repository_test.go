package fortune

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows — заготовка pgx.Rows из сценария сканирований.
type fakeRows struct {
	scans []func(dest ...any) error
	idx   int
}

func (f *fakeRows) Next() bool {
	f.idx++
	return f.idx <= len(f.scans)
}

func (f *fakeRows) Scan(dest ...any) error { return f.scans[f.idx-1](dest...) }

func (f *fakeRows) Close()                                       {}
func (f *fakeRows) Err() error                                   { return nil }
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }

func goodRecordScan(userID, exp int64) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*int64) = userID
		*dest[1].(*int64) = exp
		*dest[2].(*int) = 1
		*dest[4].(*int) = 1
		return nil
	}
}

func badScan(userID int64) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*int64) = userID
		return errors.New("значение не приводится к типу колонки")
	}
}

func goodSnapshotScan(userID int64, fortune int) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*int64) = userID
		*dest[1].(*time.Time) = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		*dest[2].(*int) = fortune
		return nil
	}
}

// Битая строка не должна ронять обход: агрегаты работают по остальным.
func TestCollectRecords_SkipsBrokenRow(t *testing.T) {
	rows := &fakeRows{scans: []func(dest ...any) error{
		goodRecordScan(1, 500),
		badScan(2),
		goodRecordScan(3, 300),
	}}

	records := collectRecords(rows)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].UserID != 1 || records[1].UserID != 3 {
		t.Errorf("broken row should be skipped, got users %d and %d",
			records[0].UserID, records[1].UserID)
	}
	if records[1].Experience != 300 {
		t.Errorf("experience = %d, want 300", records[1].Experience)
	}
}

func TestCollectSnapshots_SkipsBrokenRow(t *testing.T) {
	rows := &fakeRows{scans: []func(dest ...any) error{
		badScan(7),
		goodSnapshotScan(8, 42),
	}}

	snaps := collectSnapshots(rows)
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}
	if snaps[0].UserID != 8 || snaps[0].Fortune != 42 {
		t.Errorf("snapshot = %+v, want user 8 with fortune 42", snaps[0])
	}
	if snaps[0].SignDate != "2025-06-01" {
		t.Errorf("sign date = %q, want 2025-06-01", snaps[0].SignDate)
	}
}
