package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/meltforce/kinetic/internal/app"
	"github.com/meltforce/kinetic/internal/config"
	"github.com/meltforce/kinetic/internal/ingest/alpha"
	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/state"
	"github.com/meltforce/kinetic/internal/timer"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: kinetic-cli [-config path] [-v] <command> [flags]

Commands:
  signin -email E -password P   sign in and store the session
  signout                       sign out and clear local state
  whoami                        print the signed-in user
  logs                          list workout logs, newest first
  exercises                     list exercises
  workouts                      list workout templates
  start -name N                 start a workout session
  set -exercise ID -reps N [-weight W] [-drop] [-myo start|match]
                                log a set in the active workout
  status                        show the active workout and timer
  finish                        finish the active workout and save it
  discard                       drop the active workout
  import -file F [-warmups]     import an Alpha Progression CSV export
  version                       print version
`

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]
	if cmd == "version" {
		fmt.Println("kinetic-cli", Version)
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, app.Options{}, log)
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}

	err = run(ctx, a.Hub, cmd, args, log)
	a.Hub.Wait()
	a.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, h *state.Hub, cmd string, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	switch cmd {
	case "signin":
		email := fs.String("email", "", "account email")
		password := fs.String("password", os.Getenv("KINETIC_PASSWORD"), "account password")
		if err := fs.Parse(args); err != nil {
			return err
		}
		id := h.SignIn(ctx, *email, *password)
		if id == nil {
			return errors.New("sign in failed")
		}
		fmt.Printf("signed in as %s (%s)\n", id.Email, id.ID)
		return nil

	case "signout":
		h.SignOut(ctx)
		fmt.Println("signed out")
		return nil

	case "whoami":
		id := h.User.Get()
		if id == nil {
			return state.ErrNotAuthenticated
		}
		return printJSON(id)

	case "logs":
		if err := h.RefreshWorkoutLogs(ctx); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tWORKOUT\tSTARTED\tDURATION\tSETS")
		for _, l := range h.WorkoutLogs.Get() {
			dur := "-"
			if l.EndedAt != nil {
				dur = l.EndedAt.Sub(l.StartedAt).Round(time.Second).String()
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", l.ID, l.WorkoutName, l.StartedAt.Local().Format("2006-01-02 15:04"), dur, len(l.Sets))
		}
		return tw.Flush()

	case "exercises":
		if err := h.RefreshExercises(ctx); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tEQUIPMENT")
		for _, e := range h.Exercises.Get() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Type, e.Equipment)
		}
		return tw.Flush()

	case "workouts":
		if err := h.RefreshWorkouts(ctx); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEXERCISES")
		for _, w := range h.Workouts.Get() {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", w.ID, w.Name, len(w.Exercises))
		}
		return tw.Flush()

	case "start":
		name := fs.String("name", "", "workout name")
		if err := fs.Parse(args); err != nil {
			return err
		}
		l, err := h.StartWorkout(*name)
		if err != nil {
			return err
		}
		fmt.Printf("started %q at %s\n", l.WorkoutName, l.StartedAt.Local().Format(time.Kitchen))
		return nil

	case "set":
		exercise := fs.String("exercise", "", "exercise id")
		reps := fs.Int("reps", 0, "repetitions")
		weight := fs.Float64("weight", 0, "weight")
		drop := fs.Bool("drop", false, "drop set")
		myo := fs.String("myo", "", "myo-rep role (start or match)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		// Names come from the exercise list, which a fresh process has not loaded.
		if err := h.RefreshExercises(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "warning: exercise names unavailable:", err)
		}
		l, err := h.LogSet(models.LoggedSet{
			ExerciseID: *exercise,
			Reps:       *reps,
			Weight:     *weight,
			DropSet:    *drop,
			MyoRep:     models.MyoRep(*myo),
		})
		if err != nil {
			return err
		}
		s := l.Sets[len(l.Sets)-1]
		fmt.Printf("set %d: %s %gx%d at %s\n", len(l.Sets), s.ExerciseName, s.Weight, s.Reps, timer.FormatTime(s.Elapsed))
		return nil

	case "status":
		l := h.ActiveWorkout.Get()
		if l == nil {
			fmt.Println("no active workout")
			return nil
		}
		fmt.Printf("%s  %s  %d sets\n", l.WorkoutName, timer.FormatTime(h.Timer.Elapsed()), len(l.Sets))
		return nil

	case "finish":
		l, err := h.FinishWorkout(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("saved %q (%s)\n", l.WorkoutName, l.ID)
		return nil

	case "import":
		file := fs.String("file", "", "CSV export path")
		warmups := fs.Bool("warmups", false, "keep warmup sets")
		if err := fs.Parse(args); err != nil {
			return err
		}
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		p := alpha.NewProvider(h, log)
		p.Warmups = *warmups
		res, err := p.Ingest(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d of %d sessions (%d sets), %d skipped, %d exercises created\n",
			res.LogsImported, res.SessionsReceived, res.SetsImported, res.LogsSkipped, res.ExercisesCreated)
		return nil

	case "discard":
		if err := h.DiscardWorkout(); err != nil {
			return err
		}
		fmt.Println("discarded")
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
