package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"survey-service/internal/app"
	"survey-service/internal/domain"
)

// SurveyCache caches survey definitions with TTL to avoid repeated store hits
// on the public form. Saves write through and drop the cached copy.
type SurveyCache struct {
	store app.SurveyRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand
	rndMu sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSurvey
}

type cachedSurvey struct {
	survey    domain.Survey
	expiresAt time.Time
}

func NewSurveyCache(store app.SurveyRepository, ttl time.Duration) *SurveyCache {
	return &SurveyCache{
		store: store,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedSurvey),
	}
}

func (c *SurveyCache) LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	if survey, ok := c.lookup(surveyID); ok {
		return survey, nil
	}

	result, err, _ := c.sf.Do(surveyID, func() (interface{}, error) {
		if survey, ok := c.lookup(surveyID); ok {
			return survey, nil
		}

		survey, err := c.store.LoadSurvey(ctx, surveyID)
		if err != nil {
			return domain.Survey{}, err
		}

		c.mu.Lock()
		c.cache[surveyID] = cachedSurvey{
			survey:    survey.Clone(),
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return survey, nil
	})
	if err != nil {
		return domain.Survey{}, err
	}
	return result.(domain.Survey).Clone(), nil
}

func (c *SurveyCache) SaveSurvey(ctx context.Context, survey domain.Survey) error {
	if err := c.store.SaveSurvey(ctx, survey); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.cache, survey.ID)
	c.mu.Unlock()
	return nil
}

func (c *SurveyCache) ListSurveys(ctx context.Context, ownerID string) ([]domain.Survey, error) {
	return c.store.ListSurveys(ctx, ownerID)
}

func (c *SurveyCache) lookup(surveyID string) (domain.Survey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[surveyID]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.Survey{}, false
	}
	return entry.survey.Clone(), true
}

func (c *SurveyCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
