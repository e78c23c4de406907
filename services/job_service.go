package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
	"github.com/Thomas-lee31/Bucky-s-Menu/utils"
)

// Per-combination fetch budget so one slow dining hall cannot stall the
// rest of the run.
const fetchTimeout = 15 * time.Second

// JobService sequences the two daily runs: menu ingestion and
// notification dispatch. Both are idempotent-friendly: ingestion dedups
// by natural key, and a notification run with zero matches is a normal
// zero-count outcome.
type JobService struct {
	source    MenuSource
	menu      *MenuService
	matcher   *MatcherService
	email     *EmailService
	settings  *SettingsService
	daysAhead int
	log       *zap.SugaredLogger
}

func NewJobService(
	source MenuSource,
	menu *MenuService,
	matcher *MatcherService,
	email *EmailService,
	settings *SettingsService,
	daysAhead int,
	log *zap.SugaredLogger,
) *JobService {
	if daysAhead < 0 {
		daysAhead = 0
	}
	return &JobService{
		source:    source,
		menu:      menu,
		matcher:   matcher,
		email:     email,
		settings:  settings,
		daysAhead: daysAhead,
		log:       log,
	}
}

// RunIngestion fetches listings for every (diningHall, meal) combination
// for the look-ahead date concurrently, then bulk-upserts the flattened
// results. A failed fetch degrades to an empty slice for that
// combination and the run continues.
func (j *JobService) RunIngestion(ctx context.Context) (int64, error) {
	runID := uuid.NewString()
	target := utils.DateString(time.Now().AddDate(0, 0, j.daysAhead))
	j.log.Infow("starting ingestion run", "run_id", runID, "date", target)

	type combo struct {
		diningHall string
		meal       string
	}
	combos := []combo{}
	for _, hall := range models.DiningHalls {
		for _, meal := range models.Meals {
			combos = append(combos, combo{diningHall: hall, meal: meal})
		}
	}

	// Each worker writes only its own slot, so no locking is needed.
	results := make([][]models.MenuItem, len(combos))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range combos {
		i, c := i, c
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, fetchTimeout)
			defer cancel()

			items, err := j.source.FetchMenu(fctx, target, c.diningHall, c.meal)
			if err != nil {
				j.log.Warnw("menu fetch failed",
					"run_id", runID,
					"dining_hall", c.diningHall,
					"meal", c.meal,
					"error", err,
				)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait() // workers swallow their own errors

	all := []models.MenuItem{}
	for _, items := range results {
		all = append(all, items...)
	}

	inserted, err := j.menu.UpsertMenuItems(all)
	if err != nil {
		return 0, err
	}

	j.log.Infow("ingestion run complete",
		"run_id", runID,
		"date", target,
		"fetched", len(all),
		"inserted", inserted,
	)
	return inserted, nil
}

// RunNotifications matches the target date (today when empty) and sends
// one email per matched user, skipping users who turned email
// notifications off. Returns the number of successful sends; one failed
// recipient never aborts the rest.
func (j *JobService) RunNotifications(ctx context.Context, date string) (int, error) {
	runID := uuid.NewString()
	if date == "" {
		date = utils.Today()
	}
	j.log.Infow("starting notification run", "run_id", runID, "date", date)

	notifications, err := j.matcher.FindMatches(date)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range notifications {
		settings, err := j.settings.Get(n.UserID)
		if err != nil {
			j.log.Warnw("failed to load settings, assuming enabled",
				"run_id", runID, "email", n.Email, "error", err)
		} else if !settings.EmailNotifications {
			j.log.Infow("skipping user with notifications disabled",
				"run_id", runID, "email", n.Email)
			continue
		}

		if j.email.SendNotification(ctx, n) {
			sent++
		}
	}

	j.log.Infow("notification run complete",
		"run_id", runID,
		"date", date,
		"users_matched", len(notifications),
		"sent", sent,
	)
	return sent, nil
}
