package tracker

import "testing"

func int64p(v int64) *int64 { return &v }

func TestShouldSnapshot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		views *int64
		isNew bool
		prev  *int64
		want  bool
	}{
		{"unparsed count never snapshots", nil, true, nil, false},
		{"first sighting", int64p(100), true, nil, true},
		{"changed count", int64p(150), false, int64p(100), true},
		{"unchanged count", int64p(100), false, int64p(100), false},
		{"previous count was unparsable", int64p(100), false, nil, true},
		{"decreased count still snapshots", int64p(50), false, int64p(100), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldSnapshot(tt.views, tt.isNew, tt.prev); got != tt.want {
				t.Fatalf("ShouldSnapshot() = %v, want %v", got, tt.want)
			}
		})
	}
}
