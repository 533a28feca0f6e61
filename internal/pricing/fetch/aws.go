// Package fetch pulls compute prices from cloud provider catalogs. The
// fetchers return rows for the pricing store; the worker and the nightly
// cron job drive them.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	awspricing "github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"golang.org/x/time/rate"

	"github.com/devplan-ai/devplan-backend/internal/pricing"
)

// Config bounds one fetch run.
type Config struct {
	MaxRecords     int
	RateLimit      rate.Limit
	BurstSize      int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	MaxRetries     int
}

// DefaultConfig keeps a refresh run small enough for the estimator's needs.
func DefaultConfig() Config {
	return Config{
		MaxRecords:     20000,
		RateLimit:      8,
		BurstSize:      16,
		BackoffInitial: 1 * time.Second,
		BackoffMax:     30 * time.Second,
		MaxRetries:     3,
	}
}

var (
	reMemoryGB  = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(GiB|GB)`)
	reInstToken = regexp.MustCompile(`([a-z]+[0-9]+[a-z0-9\.-]*)`)
)

// AWS lists on-demand EC2 compute prices from the AWS Pricing API.
func AWS(ctx context.Context, cfg Config) ([]pricing.PriceRow, error) {
	awsConf, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion("us-east-1"))
	if err != nil {
		return nil, fmt.Errorf("aws config load: %w", err)
	}
	return AWSWithClient(ctx, awspricing.NewFromConfig(awsConf), cfg)
}

// AWSWithClient is AWS with an injected pricing client.
func AWSWithClient(ctx context.Context, client *awspricing.Client, cfg Config) ([]pricing.PriceRow, error) {
	limiter := rate.NewLimiter(cfg.RateLimit, cfg.BurstSize)

	input := &awspricing.GetProductsInput{
		ServiceCode:   aws.String("AmazonEC2"),
		FormatVersion: aws.String("aws_v1"),
		Filters:       onDemandComputeFilters(),
	}

	rows := make([]pricing.PriceRow, 0, 1024)
	var nextToken *string
	backoff := cfg.BackoffInitial

	for {
		if cfg.MaxRecords > 0 && len(rows) >= cfg.MaxRecords {
			log.Printf("[info] operation=fetch_aws_prices message=record limit reached count=%d", len(rows))
			break
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		input.NextToken = nextToken

		var resp *awspricing.GetProductsOutput
		var err error
		for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
			resp, err = client.GetProducts(ctx, input)
			if err == nil {
				backoff = cfg.BackoffInitial
				break
			}
			if attempt == cfg.MaxRetries {
				return nil, fmt.Errorf("GetProducts failed after %d attempts: %w", cfg.MaxRetries+1, err)
			}
			select {
			case <-time.After(backoff):
				backoff = time.Duration(float64(backoff) * 1.5)
				if backoff > cfg.BackoffMax {
					backoff = cfg.BackoffMax
				}
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		for _, pl := range resp.PriceList {
			row, ok := parseAWSPriceItem(pl)
			if !ok {
				continue
			}
			rows = append(rows, row)
			if cfg.MaxRecords > 0 && len(rows) >= cfg.MaxRecords {
				break
			}
		}

		if resp.NextToken == nil || *resp.NextToken == "" {
			break
		}
		nextToken = resp.NextToken
	}

	return rows, nil
}

func onDemandComputeFilters() []types.Filter {
	term := func(field, value string) types.Filter {
		return types.Filter{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String(field),
			Value: aws.String(value),
		}
	}
	return []types.Filter{
		term("productFamily", "Compute Instance"),
		term("operatingSystem", "Linux"),
		term("tenancy", "Shared"),
		term("preInstalledSw", "NA"),
		term("capacitystatus", "Used"),
	}
}

// parseAWSPriceItem extracts one on-demand price row from a price list
// document. Documents without an on-demand USD price are skipped.
func parseAWSPriceItem(raw string) (pricing.PriceRow, bool) {
	var js map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &js); err != nil {
		return pricing.PriceRow{}, false
	}

	prod, _ := js["product"].(map[string]interface{})
	terms, _ := js["terms"].(map[string]interface{})
	attributes, _ := prod["attributes"].(map[string]interface{})
	if prod == nil || attributes == nil {
		return pricing.PriceRow{}, false
	}

	skuID, _ := prod["sku"].(string)
	if skuID == "" {
		return pricing.PriceRow{}, false
	}

	instanceType, _ := attributes["instanceType"].(string)
	if instanceType == "" {
		instanceType = extractInstanceToken(skuID)
	}

	region := ""
	if loc, ok := attributes["location"].(string); ok {
		region = canonicalizeRegion(loc)
	} else if r, ok := attributes["regionCode"].(string); ok {
		region = r
	}

	price, unit := extractOnDemandUSD(terms)
	if price == nil {
		return pricing.PriceRow{}, false
	}

	row := pricing.PriceRow{
		SKUID:        skuID,
		Provider:     "aws",
		Region:       region,
		InstanceType: instanceType,
		PricePerHour: price,
		Currency:     "USD",
		Unit:         unit,
		FetchedAt:    time.Now().UTC(),
		Metadata: map[string]interface{}{
			"instance_family": extractInstanceFamily(instanceType),
		},
	}

	if v, ok := attributes["vcpu"].(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			row.VCPU = &n
		}
	}
	if mem, ok := attributes["memory"].(string); ok {
		if m := reMemoryGB.FindStringSubmatch(mem); len(m) >= 2 {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				row.MemoryGB = &f
			}
		}
	}

	return row, true
}

func extractOnDemandUSD(terms map[string]interface{}) (*float64, string) {
	on, ok := terms["OnDemand"].(map[string]interface{})
	if !ok {
		return nil, ""
	}
	for _, term := range on {
		termMap, ok := term.(map[string]interface{})
		if !ok {
			continue
		}
		pds, ok := termMap["priceDimensions"].(map[string]interface{})
		if !ok {
			continue
		}
		for _, pd := range pds {
			pdMap, ok := pd.(map[string]interface{})
			if !ok {
				continue
			}
			ppu, ok := pdMap["pricePerUnit"].(map[string]interface{})
			if !ok {
				continue
			}
			unit, _ := pdMap["unit"].(string)
			switch v := ppu["USD"].(type) {
			case string:
				if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
					return &f, unit
				}
			case float64:
				if v > 0 {
					return &v, unit
				}
			}
		}
	}
	return nil, ""
}

func extractInstanceFamily(instanceType string) string {
	token := extractInstanceToken(instanceType)
	if idx := strings.IndexAny(token, ".-"); idx >= 0 {
		token = token[:idx]
	}
	return token
}

func extractInstanceToken(s string) string {
	if m := reInstToken.FindString(strings.ToLower(s)); m != "" {
		return m
	}
	return ""
}

func canonicalizeRegion(loc string) string {
	r := strings.ToLower(strings.ReplaceAll(loc, " ", ""))
	r = strings.ReplaceAll(r, "(", "")
	r = strings.ReplaceAll(r, ")", "")
	return r
}
