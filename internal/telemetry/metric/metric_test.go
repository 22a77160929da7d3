package metric

import "testing"

func TestNewCollector(t *testing.T) {
	c := NewCollector(func() float64 { return 42 })
	if c == nil {
		t.Fatal("NewCollector returned nil")
	}
}

func TestCollectorReportsCurrentValue(t *testing.T) {
	size := 7.0
	c := NewCollector(func() float64 { return size })
	r := NewRegistry()
	r.MustRegister(c)

	body := scrape(t, r)
	if !containsMetricValue(body, "nilkv_keyspace_size_entries", "7") {
		t.Errorf("expected nilkv_keyspace_size_entries 7, got body:\n%s", body)
	}

	size = 12
	body = scrape(t, r)
	if !containsMetricValue(body, "nilkv_keyspace_size_entries", "12") {
		t.Errorf("expected nilkv_keyspace_size_entries 12 after update, got body:\n%s", body)
	}
}

func containsMetricValue(body, name, value string) bool {
	want := name + " " + value
	for _, line := range splitLines(body) {
		if line == want {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
