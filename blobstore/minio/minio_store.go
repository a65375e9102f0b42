package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/hupe1980/embedpq/blobstore"
	"github.com/minio/minio-go/v7"
)

// Store keeps serialized arrays as objects in a MinIO or other
// S3-compatible bucket.
type Store struct {
	client      *minio.Client
	bucket      string
	prefix      string
	contentType string
	partSize    uint64
}

var _ blobstore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithContentType overrides the content type set on uploaded objects.
func WithContentType(ct string) Option {
	return func(s *Store) { s.contentType = ct }
}

// WithPartSize sets the multipart part size used for large uploads.
// Zero lets the client choose.
func WithPartSize(n uint64) Option {
	return func(s *Store) { s.partSize = n }
}

// NewStore returns a Store for bucket. Object keys are prefix joined with
// the blob name.
func NewStore(client *minio.Client, bucket, prefix string, opts ...Option) *Store {
	s := &Store{
		client:      client,
		bucket:      bucket,
		prefix:      prefix,
		contentType: "application/octet-stream",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) objectKey(name string) string {
	return path.Join(s.prefix, name)
}

// listPrefix keeps the trailing separator path.Join would drop, so that a
// root of "a" does not match keys under "ab/".
func (s *Store) listPrefix(prefix string) string {
	p := s.objectKey(prefix)
	if p == "" || p == "." {
		return ""
	}
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		p += "/"
	}
	return p
}

func (s *Store) blobName(key string) string {
	return strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
}

// Open stats the object; data is fetched lazily by ReadAt.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.objectKey(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translate(err)
	}
	return &object{store: s, key: key, size: info.Size}, nil
}

// Put uploads data in a single request, or multipart when it exceeds the
// part size. Objects only become visible once the upload completes.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(name),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:    s.contentType,
			PartSize:       s.partSize,
			SendContentMd5: true,
		})
	return err
}

// Delete ignores objects that are already gone.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.objectKey(name), minio.RemoveObjectOptions{})
	if isNotFound(err) {
		return nil
	}
	return err
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.listPrefix(prefix),
		Recursive: true,
	})

	var names []string
	for obj := range objects {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if name := s.blobName(obj.Key); name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func translate(err error) error {
	if isNotFound(err) {
		return blobstore.ErrNotFound
	}
	return err
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// object reads byte ranges of a single key.
type object struct {
	store *Store
	key   string
	size  int64
}

func (o *object) Size() int64 { return o.size }

func (o *object) Close() error { return nil }

func (o *object) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= o.size {
		return 0, io.EOF
	}

	want := min(int64(len(p)), o.size-off)
	var opts minio.GetObjectOptions
	if err := opts.SetRange(off, off+want-1); err != nil {
		return 0, err
	}
	r, err := o.store.client.GetObject(ctx, o.store.bucket, o.key, opts)
	if err != nil {
		return 0, translate(err)
	}
	defer r.Close()

	n, err := io.ReadFull(r, p[:want])
	if err != nil {
		return n, translate(err)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
