package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

type fakeObjects struct {
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func TestKV_RoundTrip(t *testing.T) {
	objs := newFakeObjects()
	kv := newKV(objs, "club-bucket", "prod")
	ctx := context.Background()

	_, err := kv.Get(ctx, ports.KeyMeetings)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx,
		ports.Entry{Key: ports.KeyMeetings, Value: []byte(`[]`)},
		ports.Entry{Key: ports.KeyCurrentUser, Value: []byte(`null`)},
	))
	assert.Len(t, objs.objects, 1)
	assert.Contains(t, objs.objects, "club-bucket/prod/state.json")

	got, err := kv.Get(ctx, ports.KeyMeetings)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.NoError(t, kv.Ping(ctx))
}

func TestKV_Errors(t *testing.T) {
	objs := newFakeObjects()
	kv := newKV(objs, "club-bucket", "")
	ctx := context.Background()

	objs.putErr = errors.New("access denied")
	assert.ErrorIs(t, kv.Set(ctx, ports.Entry{Key: ports.KeyNews, Value: []byte(`[]`)}), objs.putErr)

	objs.getErr = errors.New("timeout")
	_, err := kv.Get(ctx, ports.KeyNews)
	assert.ErrorIs(t, err, objs.getErr)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestKV_FailedSetKeepsPreviousState(t *testing.T) {
	objs := newFakeObjects()
	kv := newKV(objs, "club-bucket", "club")
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx,
		ports.Entry{Key: ports.KeyUsers, Value: []byte(`["old-users"]`)},
		ports.Entry{Key: ports.KeyTasks, Value: []byte(`["old-tasks"]`)},
	))

	objs.putErr = errors.New("boom")
	err := kv.Set(ctx,
		ports.Entry{Key: ports.KeyUsers, Value: []byte(`["new-users"]`)},
		ports.Entry{Key: ports.KeyTasks, Value: []byte(`["new-tasks"]`)},
	)
	require.ErrorIs(t, err, objs.putErr)
	objs.putErr = nil

	for key, want := range map[string]string{ports.KeyUsers: `["old-users"]`, ports.KeyTasks: `["old-tasks"]`} {
		got, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, string(got), key)
	}
}

func TestKV_SetMergesIntoExistingState(t *testing.T) {
	objs := newFakeObjects()
	kv := newKV(objs, "club-bucket", "club")
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, ports.Entry{Key: ports.KeyNews, Value: []byte(`[1]`)}))
	require.NoError(t, kv.Set(ctx, ports.Entry{Key: ports.KeyEvents, Value: []byte(`[2]`)}))

	got, err := kv.Get(ctx, ports.KeyNews)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
	_, err = kv.Get(ctx, ports.KeyMeetings)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestKV_CorruptObject(t *testing.T) {
	objs := newFakeObjects()
	objs.objects["club-bucket/club/state.json"] = []byte(`{not json`)
	kv := newKV(objs, "club-bucket", "club")

	_, err := kv.Get(context.Background(), ports.KeyUsers)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}
