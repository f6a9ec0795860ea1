package questions

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:embed data/questions.json
var embeddedDataset []byte

// Source loads a Dataset.
type Source interface {
	Load(ctx context.Context) (Dataset, error)
}

// SourceFunc is a function that implements Source.
type SourceFunc func(ctx context.Context) (Dataset, error)

func (f SourceFunc) Load(ctx context.Context) (Dataset, error) {
	return f(ctx)
}

// Embedded returns the dataset bundled with the binary.
func Embedded() Source {
	return SourceFunc(func(ctx context.Context) (Dataset, error) {
		return Decode(bytes.NewReader(embeddedDataset))
	})
}

// ObjectGetter is the part of the S3 API an S3Source needs. *s3.Client
// satisfies it.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ ObjectGetter = (*s3.Client)(nil)

// S3Source reads the JSON dataset from an S3 object.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1"})
//	src := questions.NewS3Source(client, "devflow-data", "questions.json")
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3Source creates a source reading bucket/key.
func NewS3Source(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// Load implements Source.
func (s *S3Source) Load(ctx context.Context) (Dataset, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return Dataset{}, fmt.Errorf("questions: get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	return Decode(out.Body)
}

// String returns the object location.
func (s *S3Source) String() string {
	return "s3://" + s.bucket + "/" + s.key
}
