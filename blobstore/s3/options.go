package s3

import "github.com/aws/aws-sdk-go-v2/feature/s3/manager"

// DefaultPartSize is the multipart part size used unless overridden.
const DefaultPartSize = 8 << 20

type options struct {
	prefix      string
	region      string
	endpoint    string
	partSize    int64
	concurrency int
	checksum    bool
}

func defaultOptions() options {
	return options{
		partSize:    DefaultPartSize,
		concurrency: manager.DefaultUploadConcurrency,
		checksum:    true,
	}
}

// Option configures a Store.
type Option func(*options)

// WithPrefix places every blob under prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithRegion overrides the region of the shared AWS configuration. Only New
// consults it.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint targets an S3-compatible service with path-style addressing.
// Only New consults it.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithPartSize sets the multipart part size. Blobs smaller than one part go
// up in a single PutObject.
func WithPartSize(n int64) Option {
	return func(o *options) { o.partSize = max(n, manager.MinUploadPartSize) }
}

// WithConcurrency bounds the parts uploaded in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) { o.concurrency = max(n, 1) }
}

// WithoutChecksum skips the CRC32C checksum S3 otherwise verifies on upload.
// Blobs written by Save still carry their own CRC32.
func WithoutChecksum() Option {
	return func(o *options) { o.checksum = false }
}
