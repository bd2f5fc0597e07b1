package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"github.com/nijaru/yt-research/models"
)

// ErrNotArchived is returned by GetAnalysis when the bucket has no copy.
var ErrNotArchived = errors.New("analysis not archived")

type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
}

// SpacesClient archives saved analyses to an S3-compatible bucket.
type SpacesClient struct {
	client *s3.Client
	bucket string
}

func NewSpacesClient(ctx context.Context, cfg SpacesConfig) (*SpacesClient, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load SDK config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &SpacesClient{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// AnalysisKey is the object key an analysis is archived under.
func AnalysisKey(userID, id string) string {
	return path.Join("analyses", userID, id+".json")
}

func (s *SpacesClient) ArchiveAnalysis(ctx context.Context, analysis *models.Analysis) error {
	body, err := json.Marshal(analysis)
	if err != nil {
		return errors.Wrap(err, "failed to marshal analysis")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(AnalysisKey(analysis.UserID, analysis.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to save to Spaces")
	}

	return nil
}

func (s *SpacesClient) GetAnalysis(ctx context.Context, userID, id string) (*models.Analysis, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(AnalysisKey(userID, id)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, errors.Wrap(ErrNotArchived, AnalysisKey(userID, id))
		}
		return nil, errors.Wrap(err, "failed to get from Spaces")
	}
	defer result.Body.Close()

	var analysis models.Analysis
	if err := json.NewDecoder(result.Body).Decode(&analysis); err != nil {
		return nil, errors.Wrap(err, "failed to decode analysis")
	}

	return &analysis, nil
}
