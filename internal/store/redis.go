package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/textextract"
)

// Connect parses redisURL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return c, nil
}

const coursesIndex = "courses"

// RedisCourses stores each course as JSON under course:<id> and keeps a
// sorted set of ids scored by creation time.
type RedisCourses struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisCourses(rdb *redis.Client) *RedisCourses {
	return &RedisCourses{rdb: rdb, now: time.Now}
}

func courseKey(id string) string { return "course:" + id }

func (s *RedisCourses) Add(ctx context.Context, data course.CourseData, fileName string) (Course, error) {
	c := newCourse(uuid.NewString(), data, fileName, s.now().UTC())
	b, err := json.Marshal(c)
	if err != nil {
		return Course{}, err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, courseKey(c.ID), b, 0)
	pipe.ZAdd(ctx, coursesIndex, redis.Z{Score: float64(c.CreatedAt.UnixNano()), Member: c.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return Course{}, fmt.Errorf("save course: %w", err)
	}
	return c, nil
}

func (s *RedisCourses) Update(ctx context.Context, id string, data course.CourseData) (Course, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Course{}, err
	}
	c = c.withData(data, s.now().UTC())
	b, err := json.Marshal(c)
	if err != nil {
		return Course{}, err
	}
	if err := s.rdb.Set(ctx, courseKey(id), b, 0).Err(); err != nil {
		return Course{}, fmt.Errorf("save course: %w", err)
	}
	return c, nil
}

func (s *RedisCourses) Delete(ctx context.Context, id string) error {
	pipe := s.rdb.TxPipeline()
	del := pipe.Del(ctx, courseKey(id))
	pipe.ZRem(ctx, coursesIndex, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *RedisCourses) Get(ctx context.Context, id string) (Course, error) {
	b, err := s.rdb.Get(ctx, courseKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Course{}, err
	}
	var c Course
	if err := json.Unmarshal(b, &c); err != nil {
		return Course{}, fmt.Errorf("decode course %s: %w", id, err)
	}
	return c, nil
}

func (s *RedisCourses) List(ctx context.Context) ([]Course, error) {
	ids, err := s.rdb.ZRevRange(ctx, coursesIndex, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Course{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = courseKey(id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Course, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// index entry outlived its record
			continue
		}
		var c Course
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode course %s: %w", ids[i], err)
		}
		out = append(out, c)
	}
	return out, nil
}

// RedisAnalyses stores analyses as JSON with a TTL.
type RedisAnalyses struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisAnalyses(rdb *redis.Client, ttl time.Duration) *RedisAnalyses {
	return &RedisAnalyses{rdb: rdb, ttl: ttl}
}

func analysisKey(id string) string { return fmt.Sprintf("analysis:%s", id) }

func (s *RedisAnalyses) Save(ctx context.Context, a analyzer.Analysis) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, analysisKey(a.ID), b, s.ttl).Err()
}

func (s *RedisAnalyses) Get(ctx context.Context, id string) (analyzer.Analysis, error) {
	b, err := s.rdb.Get(ctx, analysisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return analyzer.Analysis{}, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return analyzer.Analysis{}, err
	}
	var a analyzer.Analysis
	if err := json.Unmarshal(b, &a); err != nil {
		return analyzer.Analysis{}, fmt.Errorf("decode analysis %s: %w", id, err)
	}
	return a, nil
}

// RedisPages keeps the page texts of an analysis in one hash keyed by page
// number.
type RedisPages struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPages(rdb *redis.Client, ttl time.Duration) *RedisPages {
	return &RedisPages{rdb: rdb, ttl: ttl}
}

func pagesKey(id string) string { return fmt.Sprintf("analysis:%s:pages", id) }

func (s *RedisPages) SavePages(ctx context.Context, analysisID string, pages []textextract.Page) error {
	if len(pages) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(pages))
	for _, p := range pages {
		m[strconv.Itoa(p.PageNumber)] = p.Content
	}
	key := pagesKey(analysisID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, m)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisPages) GetPages(ctx context.Context, analysisID string) ([]textextract.Page, error) {
	res, err := s.rdb.HGetAll(ctx, pagesKey(analysisID)).Result()
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("pages for %s: %w", analysisID, ErrNotFound)
	}
	out := make([]textextract.Page, 0, len(res))
	for k, v := range res {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out = append(out, textextract.Page{PageNumber: n, Content: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out, nil
}
