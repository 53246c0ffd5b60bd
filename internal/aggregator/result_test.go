package aggregator

import "testing"

func TestGroupBySource(t *testing.T) {
	results := []SearchResult{
		{Title: "r0", Source: "A"},
		{Title: "r1", Source: "B"},
		{Title: "r2", Source: "A"},
	}

	groups := GroupBySource(results)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Source != "A" || groups[1].Source != "B" {
		t.Errorf("Expected groups in first-seen order A, B; got %s, %s", groups[0].Source, groups[1].Source)
	}
	if len(groups[0].Results) != 2 || groups[0].Results[0].Title != "r0" || groups[0].Results[1].Title != "r2" {
		t.Errorf("Unexpected group A: %+v", groups[0].Results)
	}
	if len(groups[1].Results) != 1 || groups[1].Results[0].Title != "r1" {
		t.Errorf("Unexpected group B: %+v", groups[1].Results)
	}
}

func TestGroupBySource_Empty(t *testing.T) {
	if groups := GroupBySource(nil); len(groups) != 0 {
		t.Errorf("Expected no groups, got %d", len(groups))
	}
}

func TestSummarize(t *testing.T) {
	results := []SearchResult{
		{Price: "$10.00"},
		{Price: "$20.00"},
		{Price: "garbage"},
		{},
	}

	s, ok := Summarize(results)
	if !ok {
		t.Fatal("Expected a summary, got none")
	}
	if s.Min != 10 || s.Max != 20 || s.Mean != 15 || s.Count != 2 {
		t.Errorf("Unexpected summary: %+v", s)
	}

	if _, ok := Summarize([]SearchResult{{Price: "call"}}); ok {
		t.Error("Expected no summary without numeric prices")
	}
}

func TestHost(t *testing.T) {
	tests := map[string]string{
		"https://www.bulkphones.example/iphone-14": "bulkphones.example",
		"https://shop.example:8443/p/1":            "shop.example",
		"not a url at all":                         "",
		"http://[::1":                              "",
	}
	for link, want := range tests {
		if got := (SearchResult{Link: link}).Host(); got != want {
			t.Errorf("Host(%q) = %q, want %q", link, got, want)
		}
	}
}
