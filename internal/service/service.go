// Package service implements the QuillPress use cases on top of the store.
// Every exported method authorizes through domain.Authorize, validates its
// request, and returns *errors.Error values for anything the caller caused.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
	"github.com/quillpress/quillpress-server/internal/logger"
	"github.com/quillpress/quillpress-server/internal/slug"
	"github.com/quillpress/quillpress-server/internal/store"
	"github.com/quillpress/quillpress-server/internal/validation"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Store     store.Store
	Validator *validation.Validator
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) now() time.Time {
	return d.Now().UTC()
}

// log returns the request-scoped logger when one is attached to ctx.
func (d Deps) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, d.Logger)
}

// fail logs err under op and returns it unchanged. Caller mistakes are
// logged at warn, everything else at error.
func (d Deps) fail(ctx context.Context, op string, err error, attrs ...any) error {
	if err == nil {
		return nil
	}
	level := slog.LevelError
	var de *domainerrors.Error
	if errors.As(err, &de) && de.HTTPStatus() < 500 {
		level = slog.LevelWarn
	}
	d.log(ctx).Log(ctx, level, op+" failed", append(attrs, "error", err)...)
	return err
}

// translate maps store sentinels to domain errors. what names the entity
// for NotFound and ConstraintViolation messages.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFoundf("%s not found", what)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Wrapf(err, domainerrors.CodeConstraintViolation, "%s violates a uniqueness constraint", what)
	case errors.Is(err, store.ErrInvalidReference):
		return domainerrors.Wrapf(err, domainerrors.CodeNotFound, "%s references a resource that does not exist", what)
	default:
		return err
	}
}

// nullIfMissing turns a store NotFound into (nil, nil) for nullable lookups.
func nullIfMissing[T any](v *T, err error) (*T, error) {
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// applyString overwrites dst when v is present.
func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// applyNullable overwrites dst when v is present; an empty string clears it.
// JSON null decodes to a nil v, so null leaves dst unchanged.
func applyNullable(dst **string, v *string) {
	if v == nil {
		return
	}
	if strings.TrimSpace(*v) == "" {
		*dst = nil
		return
	}
	s := *v
	*dst = &s
}

// emptyToNil normalises optional create fields.
func emptyToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	s := *v
	return &s
}

// resolveSlug returns explicit when set, otherwise derives one from source.
func resolveSlug(explicit, source string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	s := slug.Make(source)
	if s == "" {
		return "", domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"slug": "could not be derived; provide one explicitly",
		})
	}
	return s, nil
}
