package availability

import (
	"testing"

	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
)

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		platform string
		areaCode string
		want     bool
	}{
		{catalog.PlatformAmazon, "110001", true},
		{catalog.PlatformAmazon, "110003", true},
		{catalog.PlatformBlinkit, "110003", false},
		{catalog.PlatformBlinkit, "400001", true},
		{catalog.PlatformZepto, "999999", false},
		{"NotAPlatform", "110001", false},
		{catalog.PlatformInstamart, "", false},
	}

	for _, tc := range tests {
		if got := IsAvailable(tc.platform, tc.areaCode); got != tc.want {
			t.Errorf("IsAvailable(%q, %q) = %v, want %v", tc.platform, tc.areaCode, got, tc.want)
		}
	}
}

func TestSnapshotCoversFixedSet(t *testing.T) {
	snap := Snapshot("110001")
	if len(snap) != len(catalog.Platforms()) {
		t.Fatalf("expected %d platforms, got %d", len(catalog.Platforms()), len(snap))
	}
	for _, p := range catalog.Platforms() {
		if _, ok := snap[p]; !ok {
			t.Errorf("snapshot missing platform %s", p)
		}
	}
}

func TestPartitionIsDisjointUnion(t *testing.T) {
	requested := []string{catalog.PlatformAmazon, catalog.PlatformBlinkit, "Bogus", catalog.PlatformZepto}

	avail, unavail := Partition(requested, "110003")

	if len(avail)+len(unavail) != len(requested) {
		t.Fatalf("partition lost platforms: %v + %v != %v", avail, unavail, requested)
	}
	seen := map[string]bool{}
	for _, p := range append(append([]string{}, avail...), unavail...) {
		if seen[p] {
			t.Fatalf("platform %s appears in both partitions", p)
		}
		seen[p] = true
	}
	for _, p := range avail {
		if !IsAvailable(p, "110003") {
			t.Errorf("unavailable platform %s in available set", p)
		}
	}
}

func TestPartitionEmptyRequest(t *testing.T) {
	avail, unavail := Partition(nil, "110001")
	if len(avail) != 0 || len(unavail) != 0 {
		t.Fatalf("expected empty partitions, got %v / %v", avail, unavail)
	}
}
