package filestorage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects map[string][]byte
	types   map[string]string
	buckets map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}, buckets: map[string]bool{}}
}

func (f *fakeStore) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucketName+"/"+objectName] = data
	f.types[bucketName+"/"+objectName] = opts.ContentType
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeStore) BucketExists(_ context.Context, bucketName string) (bool, error) {
	return f.buckets[bucketName], nil
}

func (f *fakeStore) MakeBucket(_ context.Context, bucketName string, _ minio.MakeBucketOptions) error {
	f.buckets[bucketName] = true
	return nil
}

func TestUploadAnswerAudio(t *testing.T) {
	store := newFakeStore()
	storage := newInstance(store, "interview-audio")

	require.NoError(t, storage.MakeBucket(context.TODO()))
	require.True(t, store.buckets["interview-audio"])
	require.NoError(t, storage.MakeBucket(context.TODO()))

	key, err := storage.UploadAnswerAudio(context.TODO(), "user", "session", 3, []byte("RIFF"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, "user/session/"))
	require.True(t, strings.HasSuffix(key, ".wav"))
	require.Contains(t, key, "_03_")
	require.Equal(t, []byte("RIFF"), store.objects["interview-audio/"+key])
	require.Equal(t, "audio/wav", store.types["interview-audio/"+key])
}
