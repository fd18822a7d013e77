package pagination

import "testing"

// BenchmarkPaginate measures slicing a long report into A4 pages
func BenchmarkPaginate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Paginate(250000, 1749)
	}
}

// BenchmarkNewPlan measures plan construction including geometry checks
func BenchmarkNewPlan(b *testing.B) {
	g := Geometry{PageWidthPx: 1200, PageHeightPx: 1749, MarginPx: 63}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NewPlan(250000, g)
	}
}
