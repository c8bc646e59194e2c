package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironsheep/goban-reader/internal/grid"
)

func TestClusterAxis(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  []grid.Candidate
	}{
		{"no lines", nil, nil},
		{
			name:  "single line",
			lines: []Line{{Position: 12, Votes: 30}},
			want:  []grid.Candidate{{Position: 12, Weight: 30}},
		},
		{
			name: "both edges of one line merge",
			lines: []Line{
				{Position: 42, Votes: 100},
				{Position: 39, Votes: 300},
			},
			want: []grid.Candidate{{Position: 39.75, Weight: 400}},
		},
		{
			name: "separate lines stay apart",
			lines: []Line{
				{Position: 80, Votes: 10},
				{Position: 40, Votes: 10},
				{Position: 45, Votes: 30},
			},
			want: []grid.Candidate{
				{Position: 40, Weight: 10},
				{Position: 45, Weight: 30},
				{Position: 80, Weight: 10},
			},
		},
		{
			name: "chained merge",
			lines: []Line{
				{Position: 10, Votes: 1},
				{Position: 13, Votes: 1},
				{Position: 16, Votes: 1},
			},
			want: []grid.Candidate{{Position: 13, Weight: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClusterAxis(tt.lines, 4)
			assert.Equal(t, tt.want, got)
		})
	}
}
