package mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func bulkErr(codes ...int) mongo.BulkWriteException {
	var e mongo.BulkWriteException
	for i, code := range codes {
		e.WriteErrors = append(e.WriteErrors, mongo.BulkWriteError{
			WriteError: mongo.WriteError{Index: i, Code: code, Message: fmt.Sprintf("code %d", code)},
		})
	}
	return e
}

func TestOnlyDuplicateKeys(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "all duplicates", err: bulkErr(11000, 11000), want: true},
		{name: "wrapped duplicates", err: fmt.Errorf("insert: %w", bulkErr(11000)), want: true},
		{name: "duplicate and oversized document", err: bulkErr(11000, 10334), want: false},
		{name: "no write errors", err: mongo.BulkWriteException{}, want: false},
		{
			name: "write concern failure",
			err: mongo.BulkWriteException{
				WriteErrors:       bulkErr(11000).WriteErrors,
				WriteConcernError: &mongo.WriteConcernError{Code: 64, Message: "waiting for replication timed out"},
			},
			want: false,
		},
		{name: "network error", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, onlyDuplicateKeys(tt.err))
		})
	}
}

func TestInsertedCount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		n, err := insertedCount(nil, 5)

		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})

	t.Run("mixed bulk failure reports a short count", func(t *testing.T) {
		n, err := insertedCount(bulkErr(11000, 10334), 5)

		require.Error(t, err)
		assert.Equal(t, 3, n)
		assert.Contains(t, err.Error(), "failed to insert 2 of 5 events")
	})

	t.Run("other errors write nothing", func(t *testing.T) {
		n, err := insertedCount(errors.New("server selection timeout"), 5)

		require.Error(t, err)
		assert.Equal(t, 0, n)
	})
}
