package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects   map[string][]byte
	types     map[string]string
	deleted   []string
	deleteErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.objects[key] = body
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	key := aws.ToString(in.Key)
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_SaveLayout(t *testing.T) {
	fake := newFakeS3()
	store := newS3Store(fake, "imobilia", "https://cdn.example/imobilia/")
	store.now = func() time.Time { return time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC) }

	url, err := store.Save(context.Background(), upload("garaj.jpeg", "image/jpeg", "bytes"))
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^https://cdn\.example/imobilia/listings/2026/02/[0-9a-f-]{36}\.jpeg$`), url)

	key := url[len("https://cdn.example/imobilia/"):]
	require.Equal(t, []byte("bytes"), fake.objects[key])
	require.Equal(t, "image/jpeg", fake.types[key])
}

func TestS3Store_Delete(t *testing.T) {
	fake := newFakeS3()
	store := newS3Store(fake, "imobilia", "https://cdn.example/imobilia")

	url, err := store.Save(context.Background(), upload("a.png", "image/png", "x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), url))
	require.Empty(t, fake.objects)

	require.NoError(t, store.Delete(context.Background(), "/uploads/local.png"))
	require.Len(t, fake.deleted, 1, "foreign URLs must not reach the bucket")
}

func TestS3Store_DeleteError(t *testing.T) {
	fake := newFakeS3()
	fake.deleteErr = errors.New("access denied")
	store := newS3Store(fake, "imobilia", "https://cdn.example/imobilia")

	err := store.Delete(context.Background(), "https://cdn.example/imobilia/listings/2026/01/x.jpg")
	require.Error(t, err)
}
