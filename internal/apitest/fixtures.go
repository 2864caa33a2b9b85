package apitest

import (
	"fmt"

	"github.com/dmitrijs2005/shalo/internal/client/models"
)

// Fixtures returns n resources with ids "r1".."rn", increasing view counts
// and a "go" tag on every even one.
func Fixtures(n int) []models.Resource {
	out := make([]models.Resource, 0, n)
	for i := 1; i <= n; i++ {
		v := i * 10
		tags := []string{"misc"}
		if i%2 == 0 {
			tags = []string{"go", "backend"}
		}
		out = append(out, models.Resource{
			ID:          fmt.Sprintf("r%d", i),
			DateCreated: "2024-10-01",
			Title:       fmt.Sprintf("Resource %d", i),
			Author:      "gopher",
			Tags:        tags,
			Description: fmt.Sprintf("description of resource %d", i),
			URL:         fmt.Sprintf("https://example.org/%d", i),
			Views:       &v,
		})
	}
	return out
}
