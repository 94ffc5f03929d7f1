package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mbot/internal/data/db"
)

type fakeSchema struct {
	status db.SchemaStatus
	err    error
}

func (f fakeSchema) Path() string { return "/data/mbot.db" }

func (f fakeSchema) SchemaStatus(context.Context) (db.SchemaStatus, error) {
	return f.status, f.err
}

func TestHistoryCheck(t *testing.T) {
	tests := []struct {
		name     string
		reporter SchemaReporter
		want     Status
		detail   string
	}{
		{name: "disabled", reporter: nil, want: StatusPass, detail: "disabled"},
		{name: "current", reporter: fakeSchema{status: db.SchemaStatus{Current: 2, Latest: 2}}, want: StatusPass, detail: "schema version 2"},
		{name: "behind", reporter: fakeSchema{status: db.SchemaStatus{Current: 1, Latest: 2}}, want: StatusWarn, detail: "schema at version 1 of 2"},
		{name: "error", reporter: fakeSchema{err: errors.New("locked")}, want: StatusFail, detail: "locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewHistoryCheck(tt.reporter).Run(context.Background())

			assert.Equal(t, "History", result.Name)
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.want, result.Items[0].Status)
			assert.Equal(t, tt.detail, result.Items[0].Detail)
		})
	}
}

func TestHistoryCheck_RealDatabase(t *testing.T) {
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	result := NewHistoryCheck(database).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, database.Path(), result.Items[0].Label)
}
