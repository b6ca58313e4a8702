package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/wbrown/rgrams/resources"
	"github.com/wbrown/rgrams/types"
)

// S3Client is the subset of the S3 API used to read corpora.
type S3Client interface {
	ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output,
		error)
	GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error)
}

// NewS3Client creates an S3 client from the environment's AWS
// configuration.
func NewS3Client() (S3Client, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

// ParseS3URI splits `s3://bucket/prefix` into its bucket and prefix.
func ParseS3URI(uri string) (bucket string, prefix string, err error) {
	u, parseErr := url.Parse(uri)
	if parseErr != nil {
		return "", "", parseErr
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", errors.New(fmt.Sprintf(
			"`%s` is not an s3://bucket/prefix URI", uri))
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

func fetchTextFileS3(svc S3Client, bucket, key string) (string, error) {
	result, err := svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", err
	}
	defer result.Body.Close()
	text, err := io.ReadAll(result.Body)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func fetchJSONLFileS3(svc S3Client, bucket, key string,
	sanitize bool) ([]types.Tokens, error) {
	result, err := svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()
	return resources.JSONLDocuments(result.Body, documentFilter(sanitize))
}

// getObjectsS3Recursively sends every object under prefix to objects,
// following continuation tokens.
func getObjectsS3Recursively(svc S3Client, bucket, prefix string,
	objects chan<- *s3.Object) error {
	var continuationToken *string
	for {
		output, err := svc.ListObjectsV2(&s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return err
		}
		for _, object := range output.Contents {
			objects <- object
		}
		if output.IsTruncated == nil || !*output.IsTruncated ||
			output.NextContinuationToken == nil {
			return nil
		}
		continuationToken = output.NextContinuationToken
	}
}

// ReadS3Texts
// Lists the `.txt` and `.jsonl` objects under an s3://bucket/prefix URI,
// producing a DocumentsIterator over their documents. Objects are
// fetched ahead of consumption on a goroutine.
func ReadS3Texts(svc S3Client, uri string, separator string,
	sanitize bool) (DocumentsIterator, error) {
	bucket, prefix, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	objects := make(chan *s3.Object, 64)
	documents := make(chan *Document, 64)
	go func() {
		defer close(objects)
		if listErr := getObjectsS3Recursively(svc, bucket, prefix,
			objects); listErr != nil {
			log.Fatal(listErr)
		}
	}()
	go func() {
		defer close(documents)
		for object := range objects {
			key := aws.StringValue(object.Key)
			var docs []types.Tokens
			var fetchErr error
			if strings.HasSuffix(key, ".jsonl") {
				docs, fetchErr = fetchJSONLFileS3(svc, bucket, key, sanitize)
			} else if strings.HasSuffix(key, ".txt") {
				var text string
				text, fetchErr = fetchTextFileS3(svc, bucket, key)
				docs = splitText(text, separator, sanitize)
			} else {
				continue
			}
			if fetchErr != nil {
				log.Fatal(fetchErr)
			}
			log.Printf("Read s3://%s/%s", bucket, key)
			source := fmt.Sprintf("s3://%s/%s", bucket, key)
			for docIdx := range docs {
				documents <- &Document{source, docIdx, docs[docIdx]}
			}
		}
	}()
	return documentsChannel(documents), nil
}
