package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"survey-service/internal/app"
	"survey-service/internal/domain"
	"survey-service/internal/log"
)

// SurveyCache caches survey definitions in Redis and falls back to the
// backing store on a miss. Surveys are stored as JSON:
//
//	SET survey:{surveyID}:def {json} EX {ttl}
//
// Saves write through to the store and delete the key, so every instance
// sees the new definition on its next read.
type SurveyCache struct {
	client *redis.Client
	store  app.SurveyRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewSurveyCache(client *redis.Client, store app.SurveyRepository, ttl time.Duration) *SurveyCache {
	return &SurveyCache{
		client: client,
		store:  store,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *SurveyCache) LoadSurvey(ctx context.Context, surveyID string) (domain.Survey, error) {
	if survey, ok := c.cached(ctx, surveyID); ok {
		return survey, nil
	}

	result, err, _ := c.sf.Do(surveyID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if survey, ok := c.cached(ctx, surveyID); ok {
			return survey, nil
		}

		survey, err := c.store.LoadSurvey(ctx, surveyID)
		if err != nil {
			return domain.Survey{}, err
		}

		data, err := json.Marshal(survey)
		if err == nil {
			err = c.client.Set(ctx, c.key(surveyID), data, c.ttlWithJitter()).Err()
		}
		if err != nil {
			log.WithField("survey", surveyID).Warnf("redis.cache_survey: %v", err)
		}
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
	if err := c.client.Del(ctx, c.key(survey.ID)).Err(); err != nil {
		log.WithField("survey", survey.ID).Warnf("redis.invalidate_survey: %v", err)
	}
	return nil
}

func (c *SurveyCache) ListSurveys(ctx context.Context, ownerID string) ([]domain.Survey, error) {
	return c.store.ListSurveys(ctx, ownerID)
}

func (c *SurveyCache) cached(ctx context.Context, surveyID string) (domain.Survey, bool) {
	data, err := c.client.Get(ctx, c.key(surveyID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithField("survey", surveyID).Warnf("redis.get_survey: %v", err)
		}
		return domain.Survey{}, false
	}
	var survey domain.Survey
	if err := json.Unmarshal(data, &survey); err != nil {
		log.WithField("survey", surveyID).Warnf("redis.decode_survey: %v", err)
		return domain.Survey{}, false
	}
	return survey, true
}

func (c *SurveyCache) key(surveyID string) string {
	return "survey:" + surveyID + ":def"
}

func (c *SurveyCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
