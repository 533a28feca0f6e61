package fetch

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

const samplePriceItem = `{
  "product": {
    "productFamily": "Compute Instance",
    "sku": "ABCDEF123456",
    "attributes": {
      "instanceType": "m5.xlarge",
      "location": "EU (Ireland)",
      "vcpu": "4",
      "memory": "16 GiB"
    }
  },
  "terms": {
    "OnDemand": {
      "ABCDEF123456.JRTCKXETXF": {
        "priceDimensions": {
          "ABCDEF123456.JRTCKXETXF.6YS6EN2CT7": {
            "unit": "Hrs",
            "pricePerUnit": {"USD": "0.2140000000"}
          }
        }
      }
    }
  }
}`

func TestParseAWSPriceItem(t *testing.T) {
	row, ok := parseAWSPriceItem(samplePriceItem)
	if !ok {
		t.Fatal("expected item to parse")
	}

	if row.SKUID != "ABCDEF123456" {
		t.Errorf("unexpected sku: %s", row.SKUID)
	}
	if row.InstanceType != "m5.xlarge" {
		t.Errorf("unexpected instance type: %s", row.InstanceType)
	}
	if row.Region != "euireland" {
		t.Errorf("unexpected region: %s", row.Region)
	}
	if row.VCPU == nil || *row.VCPU != 4 {
		t.Errorf("unexpected vcpu: %v", row.VCPU)
	}
	if row.MemoryGB == nil || *row.MemoryGB != 16 {
		t.Errorf("unexpected memory: %v", row.MemoryGB)
	}
	if row.PricePerHour == nil || *row.PricePerHour != 0.214 {
		t.Errorf("unexpected price: %v", row.PricePerHour)
	}
	if row.Currency != "USD" || row.Unit != "Hrs" {
		t.Errorf("unexpected currency/unit: %s/%s", row.Currency, row.Unit)
	}
	if row.Metadata["instance_family"] != "m5" {
		t.Errorf("unexpected family: %v", row.Metadata["instance_family"])
	}
}

func TestParseAWSPriceItem_NoOnDemandPrice(t *testing.T) {
	item := `{"product":{"sku":"X","attributes":{"instanceType":"t3.micro"}},"terms":{}}`
	if _, ok := parseAWSPriceItem(item); ok {
		t.Error("items without a price must be skipped")
	}
}

func TestParseAWSPriceItem_Garbage(t *testing.T) {
	if _, ok := parseAWSPriceItem("not json"); ok {
		t.Error("garbage must be skipped")
	}
}

func TestOnDemandComputeFilters(t *testing.T) {
	want := map[string]string{
		"productFamily":   "Compute Instance",
		"operatingSystem": "Linux",
		"tenancy":         "Shared",
		"preInstalledSw":  "NA",
		"capacitystatus":  "Used",
	}

	filters := onDemandComputeFilters()
	if len(filters) != len(want) {
		t.Fatalf("expected %d filters, got %d", len(want), len(filters))
	}
	for _, f := range filters {
		field := aws.ToString(f.Field)
		if f.Type != types.FilterTypeTermMatch {
			t.Errorf("filter %s: unexpected type %v", field, f.Type)
		}
		if value, ok := want[field]; !ok || value != aws.ToString(f.Value) {
			t.Errorf("filter %s = %q, want %q", field, aws.ToString(f.Value), value)
		}
	}
}

func TestExtractInstanceFamily(t *testing.T) {
	cases := map[string]string{
		"m5.xlarge":  "m5",
		"c6g.medium": "c6g",
		"":           "",
	}
	for in, want := range cases {
		if got := extractInstanceFamily(in); got != want {
			t.Errorf("extractInstanceFamily(%q) = %q, want %q", in, got, want)
		}
	}
}
