package questions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmbeddedDataset(t *testing.T) {
	ds, err := Embedded().Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Questions, 5)
	assert.Equal(t, "How do I get started with React as a beginner?", ds.Questions[0].Title)
	assert.Equal(t, "John Doe", ds.Questions[0].Author.Name)
	assert.Len(t, ds.Tags, 5)
	assert.False(t, ds.Questions[0].CreatedAt.IsZero())
}

func TestDecodeRejectsBadData(t *testing.T) {
	tests := map[string]string{
		"malformed":     `{"questions": [`,
		"unknown field": `{"questions": [], "extra": 1}`,
		"duplicate id":  `{"questions": [{"id": 1, "title": "a"}, {"id": 1, "title": "b"}]}`,
		"missing title": `{"questions": [{"id": 1}]}`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestFilter(t *testing.T) {
	ds, err := Embedded().Load(context.Background())
	require.NoError(t, err)

	titles := func(qs []Question) []int {
		var ids []int
		for _, q := range qs {
			ids = append(ids, q.ID)
		}
		return ids
	}

	assert.Len(t, Filter(ds.Questions, ""), 5, "empty query keeps all")
	assert.Equal(t, []int{3, 5}, titles(Filter(ds.Questions, "NEXT.JS")))
	assert.Equal(t, []int{2}, titles(Filter(ds.Questions, "hooks")))
	assert.Empty(t, Filter(ds.Questions, "rust"))
}

func TestExcerpt(t *testing.T) {
	q := Question{Description: "Using <code>useState</code> &amp; <b>useEffect</b>   over classes, I'm told."}

	assert.Equal(t, "Using useState & useEffect over classes, I'm told.", Excerpt(q, 0))
	assert.Equal(t, "Using useState...", Excerpt(q, 15))
	assert.Equal(t, Excerpt(q, 0), Excerpt(q, 500))
}

type fakeGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = *in.Bucket, *in.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	getter := &fakeGetter{body: `{"questions": [{"id": 7, "title": "Stored in S3"}], "tags": []}`}
	src := NewS3Source(getter, "devflow", "data/questions.json")

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "devflow", getter.bucket)
	assert.Equal(t, "data/questions.json", getter.key)
	require.Len(t, ds.Questions, 1)
	assert.Equal(t, 7, ds.Questions[0].ID)
	assert.Equal(t, "s3://devflow/data/questions.json", src.String())

	getter.err = errors.New("access denied")
	_, err = src.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestStoreCachesAndCollapsesLoads(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	src := SourceFunc(func(ctx context.Context) (Dataset, error) {
		loads.Add(1)
		<-release
		return Embedded().Load(ctx)
	})
	store := NewStore(src, WithLogger(quietLogger()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Questions(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	_, err := store.Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), loads.Load())
}

func TestStoreTTLAndStaleFallback(t *testing.T) {
	var loads int
	fail := false
	src := SourceFunc(func(ctx context.Context) (Dataset, error) {
		loads++
		if fail {
			return Dataset{}, errors.New("unavailable")
		}
		return Dataset{Questions: []Question{{ID: loads, Title: "v"}}}, nil
	})

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewStore(src, WithTTL(time.Minute), WithLogger(quietLogger()))
	store.now = func() time.Time { return now }

	q, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, q.ID)

	now = now.Add(2 * time.Minute)
	q, err = store.Get(context.Background(), 2)
	require.NoError(t, err, "stale dataset should be reloaded")
	assert.Equal(t, 2, q.ID)

	fail = true
	now = now.Add(2 * time.Minute)
	q, err = store.Get(context.Background(), 2)
	require.NoError(t, err, "failed reload should serve the cached dataset")
	assert.Equal(t, 2, q.ID)

	_, err = store.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreLoadError(t *testing.T) {
	store := NewStore(SourceFunc(func(ctx context.Context) (Dataset, error) {
		return Dataset{}, errors.New("boom")
	}), WithLogger(quietLogger()))

	_, err := store.Search(context.Background(), "react")
	assert.EqualError(t, err, "boom")
}
