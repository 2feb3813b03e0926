package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	base := &State{
		Expression: "2+3",
		Output:     "5",
		AngleMode:  AngleRadians,
		View:       ViewBasic,
		History:    []HistoryEntry{{Expression: "2+3", ResultText: "5"}},
	}

	tests := []struct {
		name     string
		old      *State
		new      *State
		wantDiff *StateDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  base,
			wantDiff: &StateDiff{
				SessionID:  "sess-1",
				Expression: ptr("2+3"),
				Output:     ptr("5"),
				Error:      ptr(false),
				AngleMode:  ptr(AngleRadians),
				View:       ptr(ViewBasic),
				History:    &HistoryDelta{Prepended: []HistoryEntry{{Expression: "2+3", ResultText: "5"}}},
			},
		},
		{
			name:     "No Change",
			old:      base,
			new:      base.Snapshot(),
			wantDiff: nil,
		},
		{
			name: "Evaluation Prepends History",
			old:  base,
			new: &State{
				Expression: "2+3*4",
				Output:     "14",
				AngleMode:  AngleRadians,
				View:       ViewBasic,
				History: []HistoryEntry{
					{Expression: "2+3*4", ResultText: "14"},
					{Expression: "2+3", ResultText: "5"},
				},
			},
			wantDiff: &StateDiff{
				SessionID:  "sess-1",
				Expression: ptr("2+3*4"),
				Output:     ptr("14"),
				History:    &HistoryDelta{Prepended: []HistoryEntry{{Expression: "2+3*4", ResultText: "14"}}},
			},
		},
		{
			name: "Failure Clears Output",
			old:  base,
			new: &State{
				Expression: "2+3",
				Error:      true,
				AngleMode:  AngleRadians,
				View:       ViewBasic,
				History:    base.History,
			},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				Output:    ptr(""),
				Error:     ptr(true),
			},
		},
		{
			name: "History Cleared",
			old:  base,
			new: &State{
				Expression: "2+3",
				Output:     "5",
				AngleMode:  AngleDegrees,
				View:       ViewBasic,
				History:    []HistoryEntry{},
			},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				AngleMode: ptr(AngleDegrees),
				History:   &HistoryDelta{Cleared: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff("sess-1", tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				gotJSON, _ := json.Marshal(got)
				wantJSON, _ := json.Marshal(tt.wantDiff)
				t.Errorf("Diff() mismatch\n got: %s\nwant: %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestDiff_NilNew(t *testing.T) {
	if Diff("s", &State{}, nil) != nil {
		t.Error("expected nil diff for nil new state")
	}
}
