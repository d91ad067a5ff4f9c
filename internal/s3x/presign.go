package s3x

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigner issues time-limited PUT authorizations scoped to one key
// under the upload prefix. It creates nothing itself.
type Presigner struct {
	presign *s3.PresignClient
	bucket  string
	prefix  string
	ttl     time.Duration
}

func NewPresigner(c *Client, bucket, prefix string, ttl time.Duration) *Presigner {
	return &Presigner{
		presign: s3.NewPresignClient(c.S3),
		bucket:  bucket,
		prefix:  prefix,
		ttl:     ttl,
	}
}

func (p *Presigner) PresignUpload(ctx context.Context, name string) (string, time.Time, error) {
	key := path.Join(p.prefix, name)
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign put s3://%s/%s: %w", p.bucket, key, err)
	}
	return req.URL, time.Now().Add(p.ttl), nil
}
