package alpha

import "github.com/meltforce/kinetic/internal/models"

// ToWorkoutLog converts a session. exerciseID maps each exercise block to
// the id it is logged under. Warmup sets are kept only when warmups is set.
// Sets are stamped at the session start; the export carries no per-set time.
func ToWorkoutLog(s Session, exerciseID func(Exercise) string, warmups bool) models.WorkoutLog {
	l := models.WorkoutLog{
		WorkoutName: s.Name,
		StartedAt:   s.Date.UTC(),
		Sets:        []models.LoggedSet{},
	}
	if s.Duration > 0 {
		end := l.StartedAt.Add(s.Duration)
		l.EndedAt = &end
	} else {
		end := l.StartedAt
		l.EndedAt = &end
	}

	for _, ex := range s.Exercises {
		id := exerciseID(ex)
		working := 0
		for _, set := range ex.Sets {
			if set.Warmup && !warmups {
				continue
			}
			ls := models.LoggedSet{
				ExerciseID:   id,
				ExerciseName: ex.Name,
				Weight:       set.Weight,
				Reps:         set.Reps,
				LoggedAt:     l.StartedAt,
			}
			if !set.Warmup {
				// The first working set is the top set the drops follow.
				ls.DropSet = ex.DropSets && working > 0
				if ex.MyoReps {
					ls.MyoRep = models.MyoRepMatch
					if working == 0 {
						ls.MyoRep = models.MyoRepStart
					}
				}
				working++
			}
			l.Sets = append(l.Sets, ls)
		}
	}
	return l
}

// sameSession reports whether l was imported from s before.
func sameSession(l models.WorkoutLog, s Session) bool {
	return l.WorkoutName == s.Name && l.StartedAt.Equal(s.Date.UTC())
}
