// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	appconfig "github.com/stikovich/advent.calendar/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var r2Client *s3.Client
var r2Bucket string
var cdnBaseURL string

// InitR2 configures the R2 client. When the account ID is unset the client
// stays nil and attachments fall back to local disk (see StoreAttachment).
func InitR2(appCfg *appconfig.Config) error {
	if appCfg.CloudflareAccountID == "" {
		return nil
	}
	r2Bucket = appCfg.R2Bucket
	cdnBaseURL = appCfg.CDNBaseURL
	if cdnBaseURL == "" {
		cdnBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", appCfg.CloudflareAccountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			appCfg.R2AccessKeyID, appCfg.R2AccessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", appCfg.CloudflareAccountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load R2 config: %w", err)
	}

	r2Client = s3.NewFromConfig(cfg)
	return nil
}

// R2Enabled reports whether attachments go to R2 or to local disk.
func R2Enabled() bool {
	return r2Client != nil
}

// UploadFileToR2 uploads a multipart file to R2 and returns the public URL.
// key is the R2 object key (e.g., "day3/user-uuid/abc123.png")
func UploadFileToR2(fileHeader *multipart.FileHeader, key string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	_, err = r2Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(r2Bucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	// ✅ Return public CDN URL (prefer your custom CDN if set)
	url := fmt.Sprintf("%s/%s", cdnBaseURL, key)
	return url, nil
}
