package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"pizzapalace/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type fallbackSet struct {
	Products     []domain.Product     `yaml:"products"`
	Testimonials []domain.Testimonial `yaml:"testimonials"`
}

var (
	fallbackOnce sync.Once
	fallback     fallbackSet
	fallbackErr  error
)

func loadFallback() (fallbackSet, error) {
	fallbackOnce.Do(func() {
		if err := yaml.Unmarshal(fallbackYAML, &fallback); err != nil {
			fallbackErr = fmt.Errorf("decode fallback catalog: %w", err)
		}
	})
	return fallback, fallbackErr
}

// FallbackProducts returns a copy of the built-in menu.
func FallbackProducts() []domain.Product {
	set, err := loadFallback()
	if err != nil {
		panic(err)
	}
	return append([]domain.Product(nil), set.Products...)
}

// FallbackTestimonials returns a copy of the built-in testimonials.
func FallbackTestimonials() []domain.Testimonial {
	set, err := loadFallback()
	if err != nil {
		panic(err)
	}
	return append([]domain.Testimonial(nil), set.Testimonials...)
}
