package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/grandparser/backend/internal/ingest"
)

func TestIngestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "record insert failure",
			err:  fmt.Errorf("%w: foreign key violation", ingest.ErrRecordCreate),
			want: "Failed to create document record",
		},
		{
			name: "object store failure",
			err:  fmt.Errorf("%w: bucket unreachable", ingest.ErrObjectStore),
			want: "Failed to upload file",
		},
		{
			name: "unclassified failure",
			err:  errors.New("boom"),
			want: "Failed to upload file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ingestFailureMessage(tt.err); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}
