package integration

import (
	"net/http"
	"testing"
)

// Benchmark for GET /api/health; to run: go test -bench=. ./test/integration -run ^$
func BenchmarkHealth(b *testing.B) {
	u := baseURL()
	client := &http.Client{}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := client.Get(u + "/api/health")
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}
