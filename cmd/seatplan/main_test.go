package main

import (
	"fmt"
	"testing"

	"github.com/matzehuels/seatplan/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Validation("bad seat"), 2},
		{errors.New(errors.ErrCodeInvalidInput, "bad file"), 2},
		{errors.NotFound("no layout"), 3},
		{errors.PermissionDenied("private"), 3},
		{errors.Persistence(fmt.Errorf("disk full"), "save"), 4},
		{fmt.Errorf("plain"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
