package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBadRequest(t *testing.T) {
	nb := New("not bad request")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "no handle on wire",
			err:  NoHandleOnWireError,
			want: true,
		},
		{
			name: "wrapped no path on wire",
			err:  fmt.Errorf("decoding params: %w", NoPathOnWireError),
			want: true,
		},
		{
			name: "unknown edit kind",
			err:  fmt.Errorf("editing cell: %w", &UnknownEditKindError{Kind: "move"}),
			want: true,
		},
		{
			name: "no conversation",
			err:  &NoConversationError{},
			want: true,
		},
		{
			name: "invalid cell index",
			err:  &InvalidCellIndexError{Op: "update", CellID: 4, Length: 2},
			want: true,
		},
		{
			name: "not bad request",
			err:  nb,
			want: false,
		},
		{
			name: "session closed",
			err:  ErrSessionClosed,
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsBadRequest(tt.err))
		})
	}
}
