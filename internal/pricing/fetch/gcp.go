package fetch

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	cloudbilling "google.golang.org/api/cloudbilling/v1"
	"google.golang.org/api/option"

	"github.com/devplan-ai/devplan-backend/internal/pricing"
)

var (
	reVCPUDesc      = regexp.MustCompile(`(?i)(\b[0-9]{1,4})\s*(v?cpu|vcpu|v-cpu|cores?)\b`)
	reMemDesc       = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(GiB|GB)\b`)
	reMachineSimple = regexp.MustCompile(`([a-z0-9]+-[a-z0-9]+-[0-9]+)`)
)

// GCP lists compute SKU prices from the Cloud Billing Catalog API.
func GCP(ctx context.Context, cfg Config) ([]pricing.PriceRow, error) {
	var opts []option.ClientOption
	if creds, _ := google.FindDefaultCredentials(ctx, cloudbilling.CloudPlatformScope); creds != nil && creds.JSON != nil {
		opts = append(opts, option.WithCredentialsJSON(creds.JSON))
	}

	svc, err := cloudbilling.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cloudbilling service: %w", err)
	}
	return GCPWithService(ctx, svc, cfg)
}

// GCPWithService is GCP with an injected billing service.
func GCPWithService(ctx context.Context, svc *cloudbilling.APIService, cfg Config) ([]pricing.PriceRow, error) {
	limiter := rate.NewLimiter(cfg.RateLimit, cfg.BurstSize)

	services, err := listServices(ctx, svc, limiter)
	if err != nil {
		return nil, fmt.Errorf("list billing services: %w", err)
	}

	compute := pickComputeServices(services)
	if len(compute) == 0 {
		return nil, fmt.Errorf("no compute services in billing catalog")
	}
	log.Printf("[info] operation=fetch_gcp_prices message=querying %d compute services", len(compute))

	rows := make([]pricing.PriceRow, 0, 1024)
	for _, service := range compute {
		pageToken := ""
		for {
			if cfg.MaxRecords > 0 && len(rows) >= cfg.MaxRecords {
				return rows, nil
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}

			call := svc.Services.Skus.List(service.Name).PageSize(500).Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			resp, err := call.Do()
			if err != nil {
				return nil, fmt.Errorf("list skus for %s: %w", service.Name, err)
			}

			for _, sku := range resp.Skus {
				rows = append(rows, parseGCPSKU(sku)...)
				if cfg.MaxRecords > 0 && len(rows) >= cfg.MaxRecords {
					break
				}
			}

			if resp.NextPageToken == "" {
				break
			}
			pageToken = resp.NextPageToken
		}
	}

	return rows, nil
}

// parseGCPSKU expands one SKU into rows, one per service region. SKUs
// without a usable price or outside the Compute family are skipped.
func parseGCPSKU(sku *cloudbilling.Sku) []pricing.PriceRow {
	if sku.Category != nil && !strings.EqualFold(sku.Category.ResourceFamily, "Compute") {
		return nil
	}

	price, unit, currency := extractGCPPrice(sku)
	if price == nil || currency != "USD" {
		return nil
	}

	// Preemptible and committed-use SKUs would skew the cheapest-price
	// query toward capacity the estimator cannot assume.
	desc := strings.ToLower(sku.Description)
	if strings.Contains(desc, "preemptible") || strings.Contains(desc, "commitment") {
		return nil
	}

	vcpu, mem := parseVcpuMem(sku)

	regions := sku.ServiceRegions
	if len(regions) == 0 {
		regions = []string{"global"}
	}

	usageType := ""
	if sku.Category != nil {
		usageType = sku.Category.UsageType
	}

	rows := make([]pricing.PriceRow, 0, len(regions))
	for _, region := range regions {
		rows = append(rows, pricing.PriceRow{
			SKUID:        sku.SkuId,
			Provider:     "gcp",
			Region:       region,
			InstanceType: extractMachineType(sku),
			VCPU:         vcpu,
			MemoryGB:     mem,
			PricePerHour: price,
			Currency:     currency,
			Unit:         unit,
			FetchedAt:    time.Now().UTC(),
			Metadata: map[string]interface{}{
				"description": sku.Description,
				"usage_type":  usageType,
			},
		})
	}
	return rows
}

func extractGCPPrice(sku *cloudbilling.Sku) (*float64, string, string) {
	for _, p := range sku.PricingInfo {
		if p == nil || p.PricingExpression == nil || len(p.PricingExpression.TieredRates) == 0 {
			continue
		}
		pe := p.PricingExpression
		tr := pe.TieredRates[0]
		if tr.UnitPrice == nil {
			continue
		}
		price := float64(tr.UnitPrice.Units) + float64(tr.UnitPrice.Nanos)/1e9
		if math.IsNaN(price) || price == 0 {
			continue
		}
		currency := "USD"
		if tr.UnitPrice.CurrencyCode != "" {
			currency = tr.UnitPrice.CurrencyCode
		}
		return &price, strings.TrimSpace(pe.UsageUnit), currency
	}
	return nil, "", ""
}

func parseVcpuMem(sku *cloudbilling.Sku) (*int, *float64) {
	var vcpu *int
	var mem *float64

	if m := reVCPUDesc.FindStringSubmatch(sku.Description); len(m) >= 2 {
		if n, err := strconv.Atoi(strings.TrimSpace(m[1])); err == nil {
			vcpu = &n
		}
	}
	if m := reMemDesc.FindStringSubmatch(sku.Description); len(m) >= 2 {
		if f, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64); err == nil {
			mem = &f
		}
	}
	if vcpu != nil || mem != nil {
		return vcpu, mem
	}

	// Machine type tokens like n1-standard-4 carry the vcpu count.
	src := strings.ToLower(sku.Name + " " + sku.Description)
	if m := reMachineSimple.FindStringSubmatch(src); len(m) >= 2 {
		parts := strings.Split(m[1], "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			return &n, nil
		}
	}
	return nil, nil
}

func extractMachineType(sku *cloudbilling.Sku) string {
	if m := reMachineSimple.FindString(strings.ToLower(sku.Description)); m != "" {
		return m
	}
	return ""
}

func listServices(ctx context.Context, svc *cloudbilling.APIService, limiter *rate.Limiter) ([]*cloudbilling.Service, error) {
	var out []*cloudbilling.Service
	pageToken := ""
	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := svc.Services.List().PageSize(200).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, err
		}
		out = append(out, resp.Services...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return out, nil
}

func pickComputeServices(services []*cloudbilling.Service) []*cloudbilling.Service {
	var out []*cloudbilling.Service
	for _, s := range services {
		if s == nil {
			continue
		}
		if strings.Contains(strings.ToLower(s.DisplayName), "compute") {
			out = append(out, s)
		}
	}
	return out
}
