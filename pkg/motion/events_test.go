package motion

import (
	"reflect"
	"testing"

	"github.com/gonewx/motion/internal/motionjson"
)

// TestFiredEvents tests the half-open (before, current] firing window.
func TestFiredEvents(t *testing.T) {
	doc := docFromCurves(3.0, 30.0, false,
		constCurve("Parameter", "ParamAngleX", 3.0, 1.0),
	)
	doc.Meta.UserDataCount = 3
	doc.UserData = []motionjson.UserData{
		{Time: 0.5, Value: "step"},
		{Time: 1.5, Value: "touched"},
		{Time: 1.5, Value: "sound"},
	}
	data := mustParse(t, doc)

	tests := []struct {
		name    string
		before  float64
		current float64
		want    []string
	}{
		{"window around one event", 1.4, 1.6, []string{"touched", "sound"}},
		{"upper bound inclusive", 1.4, 1.5, []string{"touched", "sound"}},
		{"lower bound exclusive", 1.5, 1.6, nil},
		{"window past events", 1.6, 1.8, nil},
		{"wide window keeps order", 0.0, 3.0, []string{"step", "touched", "sound"}},
		{"empty window", 1.0, 1.0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := data.FiredEvents(tt.before, tt.current)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FiredEvents(%v, %v): expected %v, got %v",
					tt.before, tt.current, tt.want, got)
			}
		})
	}

	// The motion wrapper delegates to its data.
	m := New(data)
	if got := m.FiredEvents(1.4, 1.6); !reflect.DeepEqual(got, []string{"touched", "sound"}) {
		t.Errorf("Motion delegation: got %v", got)
	}
}
