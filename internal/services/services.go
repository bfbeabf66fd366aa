package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard.com/taskboard/internal/common"
	apperrors "taskboard.com/taskboard/internal/errors"
	"taskboard.com/taskboard/internal/policy"
	repository "taskboard.com/taskboard/internal/repositories"
	model "taskboard.com/taskboard/pkg/models"
)

// authorize turns a policy denial into ErrUnauthorized. Every mutating
// service method calls it before touching storage.
func authorize(actor *model.User, action policy.Action, subject policy.Subject) error {
	if !policy.Authorize(actor, action, subject) {
		return apperrors.ErrUnauthorized
	}
	return nil
}

func requireID(id uint) error {
	if id == 0 {
		return apperrors.ErrInvalidID
	}
	return nil
}

// parseDate reads a YYYY-MM-DD calendar day. Nil and blank values mean no date.
func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(*value), time.UTC)
	if err != nil {
		return nil, apperrors.Validation("%s must be a date in YYYY-MM-DD form", field)
	}
	return &t, nil
}

func pagination(page, perPage int) repository.Pagination {
	return repository.Pagination{Page: page, PerPage: perPage}.Normalize()
}

// resolveSlug returns the normalized explicit slug, failing with a conflict
// when it is taken, or derives a free one from name.
func resolveSlug(ctx context.Context, explicit *string, name string, taken func(context.Context, string) (bool, error)) (string, error) {
	if explicit != nil {
		slug, err := common.Slugify(*explicit, "")
		if err != nil {
			return "", apperrors.Validation("slug must contain at least one letter or digit")
		}
		exists, err := taken(ctx, slug)
		if err != nil {
			return "", err
		}
		if exists {
			return "", apperrors.Conflict("the slug %q has already been taken", slug)
		}
		return slug, nil
	}

	base, err := common.Slugify(name, "")
	if err != nil {
		return "", apperrors.Validation("name must contain at least one letter or digit")
	}
	slug, err := common.UniqueSlug(ctx, base, taken)
	if err != nil {
		if errors.Is(err, common.ErrSlugExhausted) {
			return "", apperrors.Conflict("no free slug available for %q", base)
		}
		return "", err
	}
	return slug, nil
}
