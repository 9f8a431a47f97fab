package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArtifactArchive stores the full fetched artifact text in S3. The review row
// in DynamoDB only keeps a truncated copy; the archive is where the complete
// snapshot lives. Archiving is best-effort and never blocks a review.
type ArtifactArchive struct {
	Client *s3.Client
	Bucket string
}

// NewArtifactArchiveFromEnv builds the archive from AWS_REGION and
// S3_BUCKET_NAME. Returns nil when no bucket is configured, which disables
// archiving.
func NewArtifactArchiveFromEnv() *ArtifactArchive {
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		log.Println("S3_BUCKET_NAME not set, artifact archiving disabled")
		return nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Printf("Failed to load AWS config for artifact archive: %v", err)
		return nil
	}
	return &ArtifactArchive{Client: s3.NewFromConfig(cfg), Bucket: bucket}
}

// ArchiveArtifact uploads the artifact text under artifacts/<matchId>.md
func (aa *ArtifactArchive) ArchiveArtifact(ctx context.Context, matchID, text string) error {
	key := "artifacts/" + matchID + ".md"
	_, err := aa.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(aa.Bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(text),
		ContentType: aws.String("text/markdown"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive artifact to s3://%s/%s: %w", aa.Bucket, key, err)
	}
	return nil
}
