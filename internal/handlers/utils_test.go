package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Conorjs98/fantasy-dashboard/internal/league"
	"github.com/Conorjs98/fantasy-dashboard/internal/sleeper"
	"github.com/Conorjs98/fantasy-dashboard/internal/store"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "already published", err: fmt.Errorf("week 3: %w", store.ErrRecapAlreadyPublished), want: http.StatusConflict},
		{name: "recap missing", err: store.ErrRecapNotFound, want: http.StatusNotFound},
		{name: "season missing", err: fmt.Errorf("%w: 1999", league.ErrSeasonNotFound), want: http.StatusNotFound},
		{name: "sleeper 404", err: fmt.Errorf("failed: %w", &sleeper.SleeperError{Message: "gone", StatusCode: 404}), want: http.StatusNotFound},
		{name: "sleeper 500", err: &sleeper.SleeperError{Message: "upstream", StatusCode: 500}, want: http.StatusInternalServerError},
		{name: "message says not found", err: errors.New("League Not Found"), want: http.StatusNotFound},
		{name: "other", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestWeekArg(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		required bool
		want     *int
		wantErr  bool
	}{
		{name: "optional absent", args: map[string]interface{}{}},
		{name: "optional null", args: map[string]interface{}{"week": nil}},
		{name: "required absent", args: map[string]interface{}{}, required: true, wantErr: true},
		{name: "valid", args: map[string]interface{}{"week": float64(18)}, want: intPtr(18)},
		{name: "zero", args: map[string]interface{}{"week": float64(0)}, wantErr: true},
		{name: "fraction", args: map[string]interface{}{"week": 1.5}, wantErr: true},
		{name: "string", args: map[string]interface{}{"week": "3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := weekArg(tt.args, tt.required)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Expected no week, got %d", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("Expected week %d, got %v", *tt.want, got)
			}
		})
	}
}

func TestLeagueIDArg(t *testing.T) {
	if id, _ := leagueIDArg(map[string]interface{}{"league_id": " 42 "}, "default"); id != "42" {
		t.Errorf("Expected explicit league id, got %q", id)
	}
	if id, _ := leagueIDArg(map[string]interface{}{}, "default"); id != "default" {
		t.Errorf("Expected default league id, got %q", id)
	}
	if _, err := leagueIDArg(map[string]interface{}{"league_id": 42.0}, ""); err == nil {
		t.Error("Expected error without a usable league id")
	}
}

func intPtr(i int) *int { return &i }
