package alpha

import (
	"strings"
	"testing"
	"time"
)

// sampleCSV holds two sessions, newest first, the way the app exports them.
const sampleCSV = `
"Legs · Day 2";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
"2. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;8;0
3;+0;6;0
"3. Calf Raises · 15 reps · myo-reps"
#;KG;REPS;RIR
1;60;15;1
2;60;5;0
3;60;5;0

"Push · Day 1";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;100;6;0
"2. Dips · Bodyweight · 10 reps"
#;KG;REPS;RIR
1;+20;10;1
2;+20;8;0
`

// TestParseSessions verifies sessions, exercise headers and set rows.
func TestParseSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	legs := sessions[0]
	if legs.Name != "Legs · Day 2" || legs.Duration != 62*time.Minute {
		t.Errorf("legs = %q %v, want Legs · Day 2 1h2m", legs.Name, legs.Duration)
	}
	if !legs.Date.Equal(time.Date(2026, 2, 19, 4, 54, 0, 0, time.UTC)) {
		t.Errorf("legs.Date = %v", legs.Date)
	}
	if len(legs.Exercises) != 3 {
		t.Fatalf("legs exercises = %d, want 3", len(legs.Exercises))
	}

	tests := []struct {
		name      string
		equipment string
		target    int
		sets      int
		drop, myo bool
	}{
		{"Hack Squats", "Machine", 8, 4, false, false},
		{"Hanging Leg Raises", "Bodyweight", 12, 3, true, false},
		{"Calf Raises", "", 15, 3, false, true},
	}
	for i, tt := range tests {
		ex := legs.Exercises[i]
		if ex.Name != tt.name || ex.Equipment != tt.equipment || ex.TargetReps != tt.target {
			t.Errorf("exercise %d = %q/%q/%d, want %q/%q/%d", i, ex.Name, ex.Equipment, ex.TargetReps, tt.name, tt.equipment, tt.target)
		}
		if len(ex.Sets) != tt.sets {
			t.Errorf("%s sets = %d, want %d", ex.Name, len(ex.Sets), tt.sets)
		}
		if ex.DropSets != tt.drop || ex.MyoReps != tt.myo {
			t.Errorf("%s drop/myo = %v/%v, want %v/%v", ex.Name, ex.DropSets, ex.MyoReps, tt.drop, tt.myo)
		}
	}

	hack := legs.Exercises[0]
	if !hack.Sets[0].Warmup || hack.Sets[0].Weight != 37.5 || hack.Sets[2].Warmup {
		t.Errorf("hack squat sets = %+v, want two warmups first", hack.Sets)
	}

	bench := sessions[1].Exercises[0]
	if bench.Sets[1].Weight != 102.5 || bench.Sets[1].RIR != 0 {
		t.Errorf("bench top set = %+v, want 102.5 kg", bench.Sets[1])
	}
	dips := sessions[1].Exercises[1]
	if s := dips.Sets[0]; !s.BodyweightPlus || s.Weight != 20 || s.Reps != 10 {
		t.Errorf("dips set = %+v, want bodyweight +20 x 10", s)
	}
}

// TestParseWeight covers decimal commas and the bodyweight-plus notation.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		weight float64
		bw     bool
	}{
		{"102,5", 102.5, false},
		{"100", 100, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{"+2,5", 2.5, true},
	}
	for _, tt := range tests {
		w, bw := parseWeight(tt.in)
		if w != tt.weight || bw != tt.bw {
			t.Errorf("parseWeight(%q) = %v,%v, want %v,%v", tt.in, w, bw, tt.weight, tt.bw)
		}
	}
	if got := parseDecimal("x"); got != 0 {
		t.Errorf("parseDecimal(x) = %v, want 0", got)
	}
}

// TestWarmups verifies the <br>-separated warmup field.
func TestWarmups(t *testing.T) {
	sets := parseWarmups("WU1 · +0 kg · 8 reps<br>WU2 · 72,5 kg · 7 reps<br>junk")
	if len(sets) != 2 {
		t.Fatalf("warmup sets = %d, want 2", len(sets))
	}
	if !sets[0].Warmup || !sets[0].BodyweightPlus || sets[0].Reps != 8 {
		t.Errorf("wu1 = %+v", sets[0])
	}
	if sets[1].Number != 2 || sets[1].Weight != 72.5 {
		t.Errorf("wu2 = %+v", sets[1])
	}
}

func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestParseDuration verifies the two duration spellings in exports.
func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"1:02 hr", 62 * time.Minute},
		{"0:45 hr", 45 * time.Minute},
		{"50 min", 50 * time.Minute},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestSetWithoutExercise verifies a set row before any exercise is an error
// that names the line.
func TestSetWithoutExercise(t *testing.T) {
	_, err := Parse(strings.NewReader("\"Push\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n1;100;5;1\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want line 2", err)
	}
}
