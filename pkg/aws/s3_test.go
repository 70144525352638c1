package aws

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{uri: "s3://reports/graviton/2025-04-15.csv", wantBucket: "reports", wantKey: "graviton/2025-04-15.csv"},
		{uri: "s3://reports/report.json", wantBucket: "reports", wantKey: "report.json"},
		{uri: "s3://reports", wantErr: true},
		{uri: "s3://reports/", wantErr: true},
		{uri: "s3://reports/dir/", wantErr: true},
		{uri: "s3:///key.csv", wantErr: true},
		{uri: "/tmp/report.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

type fakePutObject struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	api := &fakePutObject{}
	uploader := NewS3UploaderFromAPI(api)

	err := uploader.Upload(context.Background(), "s3://reports/graviton/run.json", []byte(`{"instances":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "reports", aws.ToString(api.input.Bucket))
	assert.Equal(t, "graviton/run.json", aws.ToString(api.input.Key))
	assert.Equal(t, "application/json", aws.ToString(api.input.ContentType))
	assert.Equal(t, `{"instances":[]}`, string(api.body))
}

func TestS3Uploader_UploadError(t *testing.T) {
	api := &fakePutObject{err: errors.New("AccessDenied")}

	err := NewS3UploaderFromAPI(api).Upload(context.Background(), "s3://reports/run.csv", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")

	err = NewS3UploaderFromAPI(api).Upload(context.Background(), "reports/run.csv", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an s3 uri")
}
