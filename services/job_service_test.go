package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
	"github.com/Thomas-lee31/Bucky-s-Menu/utils"
)

type fakeSource struct {
	mu    sync.Mutex
	items map[string][]models.MenuItem // keyed by diningHall+"|"+meal
	errs  map[string]error
	calls int
}

func (f *fakeSource) FetchMenu(_ context.Context, date, diningHall, meal string) ([]models.MenuItem, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	key := diningHall + "|" + meal
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.items[key], nil
}

func newJobFixture(t *testing.T) (*JobService, *fakeSource, *fakeMailer, *SubscriptionService, *SettingsService, *MenuService) {
	t.Helper()
	db := newTestDB(t)

	menu := NewMenuService(db)
	subs := NewSubscriptionService(db)
	settings := NewSettingsService(db)
	matcher := NewMatcherService(subs, menu)
	mailer := &fakeMailer{}
	email := NewEmailService(mailer, zap.NewNop().Sugar())
	source := &fakeSource{items: map[string][]models.MenuItem{}, errs: map[string]error{}}

	jobs := NewJobService(source, menu, matcher, email, settings, 0, zap.NewNop().Sugar())
	return jobs, source, mailer, subs, settings, menu
}

func TestRunIngestionToleratesFetchFailures(t *testing.T) {
	jobs, source, _, _, _, menu := newJobFixture(t)
	today := utils.Today()

	source.items["gordon-avenue-market|lunch"] = []models.MenuItem{
		menuItem("42", "Pizza", today, "gordon-avenue-market", "lunch"),
		menuItem("43", "Burger", today, "gordon-avenue-market", "lunch"),
	}
	source.errs["four-lakes-market|dinner"] = errors.New("upstream timeout")

	inserted, err := jobs.RunIngestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	// Every (diningHall, meal) combination is attempted.
	assert.Equal(t, len(models.DiningHalls)*len(models.Meals), source.calls)

	items, err := menu.QueryToday("gordon-avenue-market", "lunch")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRunIngestionIsIdempotent(t *testing.T) {
	jobs, source, _, _, _, _ := newJobFixture(t)
	today := utils.Today()

	source.items["gordon-avenue-market|lunch"] = []models.MenuItem{
		menuItem("42", "Pizza", today, "gordon-avenue-market", "lunch"),
	}

	inserted, err := jobs.RunIngestion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	inserted, err = jobs.RunIngestion(context.Background())
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestRunNotificationsSendsPerMatchedUser(t *testing.T) {
	jobs, _, mailer, subs, _, menu := newJobFixture(t)
	today := utils.Today()

	_, err := subs.CreateSubscription("alice@wisc.edu", "42", "Pizza")
	require.NoError(t, err)
	_, err = subs.CreateSubscription("bob@wisc.edu", "99", "Sushi")
	require.NoError(t, err)

	// Only alice's food is on today's menu.
	mustUpsert(t, menu, menuItem("42", "Pizza", today, "gordon-avenue-market", "lunch"))

	sent, err := jobs.RunNotifications(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@wisc.edu", mailer.sent[0].to)
}

func TestRunNotificationsRespectsSettings(t *testing.T) {
	jobs, _, mailer, subs, settings, menu := newJobFixture(t)
	today := utils.Today()

	sub, err := subs.CreateSubscription("alice@wisc.edu", "42", "Pizza")
	require.NoError(t, err)
	mustUpsert(t, menu, menuItem("42", "Pizza", today, "gordon-avenue-market", "lunch"))

	_, err = settings.Update(sub.UserID, false)
	require.NoError(t, err)

	sent, err := jobs.RunNotifications(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, mailer.sent)
}

func TestRunNotificationsZeroMatchesIsSuccess(t *testing.T) {
	jobs, _, mailer, subs, _, _ := newJobFixture(t)

	_, err := subs.CreateSubscription("alice@wisc.edu", "42", "Pizza")
	require.NoError(t, err)

	sent, err := jobs.RunNotifications(context.Background(), "1999-12-31")
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, mailer.sent)
}

func TestRunNotificationsContinuesAfterSendFailure(t *testing.T) {
	jobs, _, mailer, subs, _, menu := newJobFixture(t)
	today := utils.Today()

	_, err := subs.CreateSubscription("alice@wisc.edu", "42", "Pizza")
	require.NoError(t, err)
	_, err = subs.CreateSubscription("bob@wisc.edu", "42", "Pizza")
	require.NoError(t, err)
	mustUpsert(t, menu, menuItem("42", "Pizza", today, "gordon-avenue-market", "lunch"))

	// First send fails, later ones succeed.
	mailer.err = errors.New("relay unavailable")
	failOnce := &failOnceMailer{inner: mailer}
	jobs.email = NewEmailService(failOnce, zap.NewNop().Sugar())

	sent, err := jobs.RunNotifications(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

// failOnceMailer fails the first send and delegates the rest.
type failOnceMailer struct {
	inner  *fakeMailer
	failed bool
}

func (f *failOnceMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if !f.failed {
		f.failed = true
		return errors.New("relay unavailable")
	}
	f.inner.err = nil
	return f.inner.Send(ctx, to, subject, textBody, htmlBody)
}
