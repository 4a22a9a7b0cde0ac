package mysql

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/repository"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newDryRunDB 只生成 SQL 不执行，也不会连数据库
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "volunteer:secret@tcp(127.0.0.1:3306)/volunteer?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		TranslateError:       true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)
	return db
}

type statement struct {
	SQL  string
	Vars []any
}

type statementLog struct {
	mutex sync.Mutex
	list  []statement
}

func (l *statementLog) record(tx *gorm.DB) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.list = append(l.list, statement{SQL: tx.Statement.SQL.String(), Vars: tx.Statement.Vars})
}

func (l *statementLog) last(t *testing.T) statement {
	t.Helper()
	l.mutex.Lock()
	defer l.mutex.Unlock()
	require.NotEmpty(t, l.list)
	return l.list[len(l.list)-1]
}

func captureStatements(t *testing.T, db *gorm.DB) *statementLog {
	t.Helper()
	log := &statementLog{}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", log.record))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:capture_update", log.record))
	return log
}

func TestParseID(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"uuid", id, id, false},
		{"upper case uuid", "3F2504E0-4F89-11D3-9A0C-0305E82C3301", "3f2504e0-4f89-11d3-9a0c-0305e82c3301", false},
		{"object id", "65a000000000000000000000", "", true},
		{"empty", "", "", true},
		{"sql", "1 OR 1=1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, repository.ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"food", "food"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`c:\tmp`, `c:\\tmp`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}

func TestSearchByTitleMatchesLiterally(t *testing.T) {
	db := newDryRunDB(t)
	log := captureStatements(t, db)
	repo := &PostRepository{DB: db}

	_, err := repo.SearchByTitle(context.Background(), "50%_OFF")
	require.NoError(t, err)

	stmt := log.last(t)
	assert.Contains(t, stmt.SQL, "LOWER(post_title) LIKE ?")
	assert.Equal(t, []any{`%50\%\_off%`}, stmt.Vars)
}

func TestDecrementSlotsKeepsFloor(t *testing.T) {
	db := newDryRunDB(t)
	log := captureStatements(t, db)
	repo := &PostRepository{DB: db}
	id := uuid.NewString()

	res, err := repo.DecrementSlots(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.ModifiedCount)

	stmt := log.last(t)
	assert.Contains(t, stmt.SQL, "no_of_volunteers_needed > 0")
	assert.Contains(t, stmt.SQL, "no_of_volunteers_needed - 1")
	assert.Contains(t, stmt.Vars, id)

	_, err = repo.DecrementSlots(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestRequestCreateDuplicateKey(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantDup bool
	}{
		{"unique index violation", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry for key 'uk_request_dedup'"}, true},
		{"lock wait timeout", &mysqldriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newDryRunDB(t)
			// 模拟驱动在插入时返回的错误，经 TranslateError 转换
			require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_insert", func(tx *gorm.DB) {
				_ = tx.AddError(tt.err)
			}))
			repo := &RequestRepository{DB: db}

			_, err := repo.Create(context.Background(), &model.VolunteerRequest{
				PostID:         uuid.NewString(),
				OrganizerEmail: "org@example.com",
				DedupKey:       "organizer:org@example.com:p1",
			})
			require.Error(t, err)
			if tt.wantDup {
				assert.ErrorIs(t, err, repository.ErrDuplicate)
			} else {
				assert.False(t, errors.Is(err, repository.ErrDuplicate))
			}
		})
	}
}

func TestRequestCreateAssignsID(t *testing.T) {
	repo := &RequestRepository{DB: newDryRunDB(t)}
	req := &model.VolunteerRequest{PostID: uuid.NewString(), OrganizerEmail: "org@example.com"}

	res, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	_, err = uuid.Parse(res.InsertedID)
	assert.NoError(t, err)
	assert.Equal(t, res.InsertedID, req.ID)
}
