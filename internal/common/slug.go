package common

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const maxSlugAttempts = 20

var (
	ErrEmptySlug     = errors.New("slug cannot be empty")
	ErrSlugExhausted = errors.New("no free slug found")
	nonSlugChars     = regexp.MustCompile(`[^a-z0-9]+`)
)

func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

// UniqueSlug returns base if it is free, otherwise the first free
// base-1 .. base-20.
func UniqueSlug(ctx context.Context, base string, taken func(ctx context.Context, slug string) (bool, error)) (string, error) {
	candidate := base
	for i := 0; i <= maxSlugAttempts; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}
