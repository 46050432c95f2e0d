// Package deploy uploads a built site to S3 and keeps a CloudFront
// distribution in front of it.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"socsite/internal/config"
	appLog "socsite/internal/log"
)

// Uploader is the subset of manager.Uploader used here.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// CDN is the subset of the CloudFront client used here.
type CDN interface {
	cloudfront.ListDistributionsAPIClient
	CreateDistribution(ctx context.Context, params *cloudfront.CreateDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateDistributionOutput, error)
	CreateInvalidation(ctx context.Context, params *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

type Deployer struct {
	cfg      config.DeployConfig
	uploader Uploader
	cdn      CDN

	now func() time.Time
}

// Result summarises one deploy.
type Result struct {
	Uploaded       []string
	DistributionID string
	InvalidationID string
}

func New(cfg config.DeployConfig, uploader Uploader, cdn CDN) *Deployer {
	return &Deployer{cfg: cfg, uploader: uploader, cdn: cdn, now: time.Now}
}

// NewFromEnv builds a Deployer on the default AWS credential chain.
func NewFromEnv(ctx context.Context, cfg config.DeployConfig) (*Deployer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	uploader := manager.NewUploader(s3.NewFromConfig(awsCfg))
	return New(cfg, uploader, cloudfront.NewFromConfig(awsCfg)), nil
}

// ObjectKey maps a file path relative to the output dir onto its S3 key.
// Nested index pages drop their "/index.html" so "/about" resolves on the
// bucket without a directory index; the root index.html stays as is for
// the distribution's default root object.
func ObjectKey(prefix, rel string) string {
	rel = filepath.ToSlash(rel)
	if rel != "index.html" && strings.HasSuffix(rel, "/index.html") {
		rel = strings.TrimSuffix(rel, "/index.html")
	}
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

// ContentType picks the Content-Type for an output file. Clean-URL pages
// have no extension on the bucket so the type is decided from the local
// name.
func ContentType(rel string) string {
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".ics":
		return "text/calendar; charset=utf-8"
	}
	if ct := mime.TypeByExtension(filepath.Ext(rel)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func cacheControl(rel string) string {
	ext := strings.ToLower(filepath.Ext(rel))
	switch ext {
	case ".html", ".ics", ".xml", ".txt":
		return "public, max-age=300"
	}
	return "public, max-age=86400"
}

// Deploy uploads every file under outDir, then invalidates the
// distribution in front of the bucket: DistributionID when set, otherwise
// one found by origin. A missing distribution is created only with
// CreateDistribution.
func (d *Deployer) Deploy(ctx context.Context, outDir string) (*Result, error) {
	if d.cfg.Bucket == "" {
		return nil, errors.New("deploy: bucket is required")
	}

	appLog.Info("starting deployment", "bucket", d.cfg.Bucket, "prefix", d.cfg.Prefix, "dir", outDir)
	res := &Result{}

	err := filepath.WalkDir(outDir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(outDir, p)
		if err != nil {
			return err
		}
		key := ObjectKey(d.cfg.Prefix, rel)
		if err := d.upload(ctx, p, rel, key); err != nil {
			return err
		}
		res.Uploaded = append(res.Uploaded, key)
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("deploy failed: %w", err)
	}
	appLog.Info("upload complete", "objects", len(res.Uploaded))

	distID := d.cfg.DistributionID
	if distID == "" {
		if d.cfg.CreateDistribution {
			distID, err = d.EnsureDistribution(ctx)
		} else {
			distID, err = d.FindDistribution(ctx)
		}
		if err != nil {
			return res, err
		}
	}
	if distID == "" {
		appLog.Info("no CloudFront distribution fronts the bucket, skipping invalidation", "bucket", d.cfg.Bucket)
		return res, nil
	}
	res.DistributionID = distID

	invID, err := d.Invalidate(ctx, distID)
	if err != nil {
		return res, err
	}
	res.InvalidationID = invID
	return res, nil
}

func (d *Deployer) upload(ctx context.Context, p, rel, key string) error {
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", p, err)
	}
	defer f.Close()

	_, err = d.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(d.cfg.Bucket),
		Key:          aws.String(key),
		Body:         f,
		ContentType:  aws.String(ContentType(rel)),
		CacheControl: aws.String(cacheControl(rel)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	appLog.Debug("uploaded object", "key", key, "bucket", d.cfg.Bucket)
	return nil
}

func (d *Deployer) originDomain() string {
	return d.cfg.Bucket + ".s3.amazonaws.com"
}

// FindDistribution returns the ID of a distribution whose origin is the
// bucket, or "" when there is none.
func (d *Deployer) FindDistribution(ctx context.Context) (string, error) {
	want := d.originDomain()
	paginator := cloudfront.NewListDistributionsPaginator(d.cdn, &cloudfront.ListDistributionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list CloudFront distributions: %w", err)
		}
		if page.DistributionList == nil {
			continue
		}
		for _, dist := range page.DistributionList.Items {
			if dist.Origins == nil {
				continue
			}
			for _, origin := range dist.Origins.Items {
				if aws.ToString(origin.DomainName) == want {
					return aws.ToString(dist.Id), nil
				}
			}
		}
	}
	return "", nil
}

// EnsureDistribution finds or creates the distribution fronting the
// bucket.
func (d *Deployer) EnsureDistribution(ctx context.Context) (string, error) {
	id, err := d.FindDistribution(ctx)
	if err != nil {
		return "", err
	}
	if id != "" {
		appLog.Info("using existing CloudFront distribution", "id", id)
		return id, nil
	}

	bucket := d.cfg.Bucket
	originPath := ""
	if d.cfg.Prefix != "" {
		originPath = "/" + d.cfg.Prefix
	}

	input := &cloudfront.CreateDistributionInput{
		DistributionConfig: &types.DistributionConfig{
			CallerReference: aws.String(fmt.Sprintf("socsite-%s-%d", bucket, d.now().Unix())),
			Comment:         aws.String("socsite distribution for S3 bucket " + bucket),
			Enabled:         aws.Bool(true),
			DefaultCacheBehavior: &types.DefaultCacheBehavior{
				TargetOriginId:       aws.String(bucket),
				ViewerProtocolPolicy: types.ViewerProtocolPolicyRedirectToHttps,
				TrustedSigners:       &types.TrustedSigners{Enabled: aws.Bool(false), Quantity: aws.Int32(0)},
				ForwardedValues: &types.ForwardedValues{
					QueryString: aws.Bool(false),
					Cookies:     &types.CookiePreference{Forward: types.ItemSelectionNone},
				},
				MinTTL: aws.Int64(0),
			},
			Origins: &types.Origins{
				Quantity: aws.Int32(1),
				Items: []types.Origin{{
					Id:             aws.String(bucket),
					DomainName:     aws.String(d.originDomain()),
					OriginPath:     aws.String(originPath),
					S3OriginConfig: &types.S3OriginConfig{OriginAccessIdentity: aws.String("")},
				}},
			},
			CustomErrorResponses: &types.CustomErrorResponses{
				Quantity: aws.Int32(2),
				Items: []types.CustomErrorResponse{
					{ErrorCode: aws.Int32(403), ResponseCode: aws.String("404"), ResponsePagePath: aws.String("/404.html")},
					{ErrorCode: aws.Int32(404), ResponseCode: aws.String("404"), ResponsePagePath: aws.String("/404.html")},
				},
			},
			PriceClass:        types.PriceClassPriceClass100,
			DefaultRootObject: aws.String("index.html"),
			Restrictions: &types.Restrictions{
				GeoRestriction: &types.GeoRestriction{
					RestrictionType: types.GeoRestrictionTypeNone,
					Quantity:        aws.Int32(0),
				},
			},
			ViewerCertificate: &types.ViewerCertificate{
				CloudFrontDefaultCertificate: aws.Bool(true),
				MinimumProtocolVersion:       types.MinimumProtocolVersionTLSv12016,
				CertificateSource:            types.CertificateSourceCloudfront,
			},
		},
	}

	resp, err := d.cdn.CreateDistribution(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to create CloudFront distribution: %w", err)
	}
	if resp.Distribution == nil {
		return "", errors.New("CloudFront returned no distribution")
	}
	id = aws.ToString(resp.Distribution.Id)
	appLog.Info("created CloudFront distribution", "id", id, "domain", aws.ToString(resp.Distribution.DomainName))
	return id, nil
}

// Invalidate flushes every cached path of the distribution.
func (d *Deployer) Invalidate(ctx context.Context, distID string) (string, error) {
	resp, err := d.cdn.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distID),
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: aws.String(fmt.Sprintf("socsite-%d", d.now().UnixNano())),
			Paths: &types.Paths{
				Quantity: aws.Int32(1),
				Items:    []string{"/*"},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to invalidate distribution %s: %w", distID, err)
	}
	var invID string
	if resp.Invalidation != nil {
		invID = aws.ToString(resp.Invalidation.Id)
	}
	appLog.Info("invalidation requested", "distribution", distID, "invalidation", invID)
	return invID, nil
}
